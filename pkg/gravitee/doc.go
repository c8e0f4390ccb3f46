// Package gravitee provides the primary entry point for constructing a
// management API client that implements the apim.Client interface.
//
// It layers configuration, HTTP transport and authentication on top of the
// resource interfaces and types defined in the apim package. Most
// applications should import gravitee to build a client, then use the
// returned apim.Client to access resource-specific clients, for example
// Apis(), Applications(), Subscriptions().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
//	  "github.com/abourdon/gravitee-toolbox-sub000/pkg/gravitee"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With a token you already have:
//	  cli, err := gravitee.NewWithToken(ctx, "https://apim.example.com/management", "token")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with username/password; the client logs in against /user/login
//	  // and refreshes the session token as needed:
//	  cli, err = gravitee.New(ctx, &apim.Config{
//	    BaseURL:  "https://apim.example.com/management",
//	    Username: "admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  apis, err := cli.Apis().List(ctx, apim.NewQueryParams().WithSize(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = apis
//	}
//
// # TLS
//
// Certificate verification is off by default, since management endpoints
// commonly run self-signed certificates; set Config.StrictTLS to re-enable
// it.
package gravitee
