// Package server provides the HTTP listeners of enginevisor: the health
// responder bound on the service port, and an optional metrics listener.
//
// The health responder answers every request, whatever its method or path,
// with 200 and a fixed plaintext body. It is bound before any provisioning
// work starts so the host platform sees the process as alive during the
// artifact download.
//
// # Basic Usage
//
//	srv := server.NewServer(&cfg.Service, server.WithLogger(logger))
//	if err := srv.Listen(); err != nil {
//	    return err // port unavailable
//	}
//	go srv.Serve(ctx)
//	defer srv.Shutdown(context.Background())
//
// Listen and Serve are split so callers can treat a bind failure as fatal
// and then carry on with other work while requests are served.
package server
