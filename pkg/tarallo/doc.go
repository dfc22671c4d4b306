// Package tarallo is a client for the T.A.R.A.L.L.O. inventory server.
//
// It models inventory items, products and their hierarchical locations
// as local values and maps every operation onto one authenticated HTTP
// request against the server's versioned REST API, translating status
// codes into typed results or typed errors.
//
// Reading and writing use different projections of the same tree: Item
// is what the server returns (full location path, optional product
// reference), ItemToUpload is what create requests send (single parent,
// no product). The two never mix inside one tree.
//
// A Client is one synchronous session. Every operation blocks until its
// HTTP exchange completes, and a single 401 triggers at most one
// re-authentication and one replay before AuthenticationError is
// surfaced. Clients are not safe for concurrent use; create one per
// concurrent actor.
//
// Example:
//
//	client, err := tarallo.NewClient(&tarallo.Config{
//		BaseURL: "https://tarallo.example.com/v2",
//		Token:   os.Getenv("TARALLO_TOKEN"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	item, err := client.GetItem(ctx, "R777", 0)
//	var notFound *tarallo.ItemNotFoundError
//	if errors.As(err, &notFound) {
//		// ...
//	}
package tarallo
