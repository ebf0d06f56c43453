package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Resource identifies one of the remote resource collections.
type Resource string

const (
	// ResourcePeople is the people collection ("/people").
	ResourcePeople Resource = "people"

	// ResourcePlanets is the planets collection ("/planets").
	ResourcePlanets Resource = "planets"
)

// Resources lists every collection the client knows about.
var Resources = []Resource{ResourcePeople, ResourcePlanets}

// ParseResource converts a collection name into a Resource.
func ParseResource(s string) (Resource, error) {
	switch Resource(strings.ToLower(strings.TrimSpace(s))) {
	case ResourcePeople:
		return ResourcePeople, nil
	case ResourcePlanets:
		return ResourcePlanets, nil
	default:
		return "", fmt.Errorf("unknown resource %q", s)
	}
}

// Person is a record of the people collection.
type Person struct {
	Name      string `json:"name"`
	Height    string `json:"height"`
	Mass      string `json:"mass"`
	Created   string `json:"created"`
	Edited    string `json:"edited"`
	Homeworld string `json:"homeworld"`
}

// PersonColumns names the fields returned by Person.Row, in order.
var PersonColumns = []string{"name", "height", "mass", "created", "edited", "homeworld"}

// Row returns the record as display cells ordered like PersonColumns.
func (p Person) Row() []string {
	return []string{p.Name, p.Height, p.Mass, p.Created, p.Edited, p.Homeworld}
}

// Planet is a record of the planets collection.
type Planet struct {
	Name       string `json:"name"`
	Diameter   string `json:"diameter"`
	Climate    string `json:"climate"`
	Population string `json:"population"`
	URL        string `json:"url"`
}

// PlanetColumns names the fields returned by Planet.Row, in order.
var PlanetColumns = []string{"name", "diameter", "climate", "population", "url"}

// Row returns the record as display cells ordered like PlanetColumns.
func (p Planet) Row() []string {
	return []string{p.Name, p.Diameter, p.Climate, p.Population, p.URL}
}

// Page is the paginated envelope returned by every collection endpoint.
// Results keep the order the service sent them in.
type Page[T any] struct {
	// Count is the total number of records in the collection.
	Count int `json:"count"`

	// Next is the URL of the following page, nil on the last page.
	Next *string `json:"next"`

	// Previous is the URL of the preceding page, nil on the first page.
	Previous *string `json:"previous"`

	Results []T `json:"results"`
}

// PeoplePage is a page of the people collection.
type PeoplePage = Page[Person]

// PlanetPage is a page of the planets collection.
type PlanetPage = Page[Planet]

// HasNext reports whether the service advertised a following page.
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// HasPrevious reports whether the service advertised a preceding page.
func (p *Page[T]) HasPrevious() bool {
	return p.Previous != nil && *p.Previous != ""
}

// NextPage returns the page number of the Next cursor.
func (p *Page[T]) NextPage() (int, bool) {
	return cursorPage(p.Next)
}

// PreviousPage returns the page number of the Previous cursor.
func (p *Page[T]) PreviousPage() (int, bool) {
	return cursorPage(p.Previous)
}

// TotalPages derives the number of pages in the collection from Count and
// the given page size. Returns 0 when pageSize is not positive.
func (p *Page[T]) TotalPages(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (p.Count + pageSize - 1) / pageSize
}

// cursorPage extracts the "page" query value from a cursor URL.
func cursorPage(cursor *string) (int, bool) {
	if cursor == nil || *cursor == "" {
		return 0, false
	}

	u, err := url.Parse(*cursor)
	if err != nil {
		return 0, false
	}

	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil {
		return 0, false
	}
	return n, true
}
