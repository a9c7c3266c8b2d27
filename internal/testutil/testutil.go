// Package testutil holds planner fixtures
package testutil

import (
	_ "embed"
	"fmt"

	"github.com/autom8ter/allpaths/catalog"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/model"
	"github.com/brianvoe/gofakeit/v6"
)

var (
	//go:embed testdata/catalog.yaml
	CatalogYAML []byte
	// Catalog holds a wildcard index, a prefixed partial wildcard index, a compound index, a sparse unique index and a
	// text index
	Catalog = catalog.MustLoad(CatalogYAML)
)

// NewRequest returns a random request over the fixture catalog's fields
func NewRequest() model.Request {
	filters := []string{
		fmt.Sprintf(`{"age": {"$gte": %v}, "name": %q}`, gofakeit.Number(0, 100), gofakeit.Name()),
		fmt.Sprintf(`{"tags": {"$elemMatch": {"$eq": %q}}}`, gofakeit.Word()),
		fmt.Sprintf(`{"email": %q}`, gofakeit.Email()),
		fmt.Sprintf(`{"$or": [{"profile.city": %q}, {"age": {"$lt": %v}}]}`, gofakeit.City(), gofakeit.Number(0, 100)),
		fmt.Sprintf(`{"contacts.phone": {"$exists": true}, "age": %v}`, gofakeit.Number(18, 100)),
	}
	return model.Request{
		Filter: expr.MustParse(filters[gofakeit.Number(0, len(filters)-1)]),
		Limit:  gofakeit.Number(0, 20),
	}
}

// NewRequests returns n random requests
func NewRequests(n int) []model.Request {
	reqs := make([]model.Request, n)
	for i := range reqs {
		reqs[i] = NewRequest()
	}
	return reqs
}
