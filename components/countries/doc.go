// Package countries provides deterministic country data, search helpers, and a
// small net/http handler that returns JSON options for mapping place columns.
//
// The default handler responds to GET and HEAD requests and supports query,
// continent, and limit parameters to filter results. The backing data is the
// embedded country list shipped with the places package.
package countries
