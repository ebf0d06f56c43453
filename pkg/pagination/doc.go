// Package pagination provides parallel batch fetching for SWAPI collections.
//
// SWAPI reports the collection size in the "count" field of every page and
// serves a fixed number of records per page. The first page therefore tells
// the fetcher how many pages exist; the remaining pages are spread over a
// bounded worker pool.
//
// Example usage:
//
//	fetcher := pagination.NewBatchFetcher(swapiClient, pagination.DefaultConfig())
//	people, err := pagination.FetchAll[client.Person](ctx, fetcher, client.ResourcePeople)
//
// The batch fetcher:
//   - Fetches page 1 to determine the total page count
//   - Spawns a worker pool (default 4 workers)
//   - Returns pages ordered by page number
//   - Fails fast: the first failed page cancels the rest and no data is returned
package pagination
