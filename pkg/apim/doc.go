// Package apim provides types, interfaces, and helpers for working with a
// Gravitee-style API-management control plane.
//
// # Overview
//
// The apim package defines the domain types (Api, Application, Plan,
// Subscription, AuditEvent) and the interfaces for resource-oriented clients
// (ApisClient, ApplicationsClient, SubscriptionsClient). A concrete
// implementation is provided by the gravitee package, which wires
// configuration, transport, and authentication. Most consumers should import
// gravitee to construct a client and then interact with the resource client
// interfaces exposed here.
//
// Getting a client
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
//	  cli, err := gravitee.New(ctx, &apim.Config{
//	    BaseURL:  "https://gravitee.example.com/management",
//	    Username: "admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of APIs
//	  page, err := cli.Apis().List(ctx, apim.NewQueryParams().WithSize(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = page
//	}
//
// # Pagination
//
// The management API paginates its collections in three different styles:
// page counters (APIs, applications, audit), a grand total without a page
// count (subscriptions), and a search-after cursor (gateway logs). The
// Paginate engine drives all three behind one iterator surface:
//
//	it := cli.Apis().ListAll(ctx, nil)
//	for {
//	  api, err := it.Next()
//	  if err != nil { break } // apim.ErrNoMoreItems at exhaustion
//	  _ = api
//	}
//
// # Filtering
//
// ApiFilter narrows listings conjunctively. Cheap fields run against the
// shallow listing; deep fields (endpoints, plans, policies, structural
// queries) fetch each candidate's export once and share it. Search wires the
// full pipeline, including optional throttling between emissions:
//
//	it, err := cli.Apis().Search(ctx, &apim.ApiFilter{Name: "payments.*"}, nil)
//
// # Errors
//
// API errors are represented by APIError; caller-configuration problems by
// ValidationError. Helpers IsAuthError, IsNotFound, and IsValidation branch
// on common cases.
package apim
