package web

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/gin-gonic/gin"
)

// HomePageData is the data rendered by the home view.
type HomePageData struct {
	Title     string
	Resources []client.Resource
	Resource  client.Resource
	Page      int

	Count      int
	TotalPages int
	Columns    []string
	Rows       [][]string

	HasPrevious  bool
	PreviousPage int
	HasNext      bool
	NextPage     int

	Error string
}

// homePage renders one page of a collection. Query parameters:
// resource (people|planets, default people) and page (default 1).
// The page number is forwarded to the service as given.
func (s *Server) homePage(c *gin.Context) {
	resource, err := client.ParseResource(c.DefaultQuery("resource", string(client.ResourcePeople)))
	if err != nil {
		redirectHome(c)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.Redirect(http.StatusFound, "/?"+url.Values{"resource": {string(resource)}}.Encode())
		return
	}

	data := HomePageData{
		Title:     string(resource),
		Resources: client.Resources,
		Resource:  resource,
		Page:      page,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.options.FetchTimeout)
	defer cancel()

	switch resource {
	case client.ResourcePeople:
		var p *client.PeoplePage
		if p, err = s.fetcher.FetchPeople(ctx, page); err == nil {
			data.Columns = client.PersonColumns
			for _, person := range p.Results {
				data.Rows = append(data.Rows, person.Row())
			}
			fillPager(&data, p)
		}
	case client.ResourcePlanets:
		var p *client.PlanetPage
		if p, err = s.fetcher.FetchPlanets(ctx, page); err == nil {
			data.Columns = client.PlanetColumns
			for _, planet := range p.Results {
				data.Rows = append(data.Rows, planet.Row())
			}
			fillPager(&data, p)
		}
	}

	status := http.StatusOK
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("resource", string(resource)).
			Int("page", page).
			Msg("Page fetch failed")
		status = http.StatusBadGateway
		data.Error = err.Error()
	}

	s.render(c, status, data)
}

// fillPager copies count and cursors from the envelope into the view data.
func fillPager[T any](data *HomePageData, p *client.Page[T]) {
	data.Count = p.Count
	data.NextPage, data.HasNext = p.NextPage()
	data.PreviousPage, data.HasPrevious = p.PreviousPage()
	if len(p.Results) > 0 && data.HasNext {
		data.TotalPages = p.TotalPages(len(p.Results))
	}
}

// render executes the templates into a buffer so a template error never
// leaves a half-written response.
func (s *Server) render(c *gin.Context, status int, data HomePageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.logger.Error().Err(err).Msg("Template error")
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
