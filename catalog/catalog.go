// Package catalog loads index catalogs from yaml or json documents, ex:
//
//	indexes:
//	  - name: allPaths
//	    keyPattern: {"$**": 1}
//	    multikeyPaths: [tags]
//	  - name: age_name
//	    keyPattern: [{path: age, direction: 1}, {path: name, direction: -1}]
//
// yaml maps are unordered: compound key patterns must be given as a list to keep their field order.
package catalog

import (
	_ "embed"
	"encoding/json"
	"os"
	"strings"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/util"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaContent string

var catalogSchema *gojsonschema.Schema

func init() {
	var err error
	catalogSchema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		panic(errors.Wrap(err, errors.Internal, "failed to load catalog schema"))
	}
}

// Schema returns the json schema catalog documents are checked against
func Schema() string {
	return schemaContent
}

// Load parses, schema checks and validates a yaml or json catalog document
func Load(content []byte) ([]model.Index, error) {
	jsonContent, err := util.YAMLToJSON(content)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to convert catalog to json")
	}
	result, err := catalogSchema.Validate(gojsonschema.NewBytesLoader(jsonContent))
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to check catalog")
	}
	if !result.Valid() {
		errs := lo.Map(result.Errors(), func(e gojsonschema.ResultError, _ int) string {
			return e.String()
		})
		return nil, errors.New(errors.Validation, "invalid catalog: %s", strings.Join(errs, ", "))
	}
	var indexes []model.Index
	if err := json.Unmarshal([]byte(gjson.GetBytes(jsonContent, "indexes").Raw), &indexes); err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to decode catalog indexes")
	}
	names := map[string]bool{}
	for _, idx := range indexes {
		if err := idx.Validate(); err != nil {
			return nil, err
		}
		if names[idx.Name] {
			return nil, errors.New(errors.Validation, "duplicate index name: %s", idx.Name)
		}
		names[idx.Name] = true
	}
	return indexes, nil
}

// LoadFile loads the catalog document at the given path
func LoadFile(path string) ([]model.Index, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.NotFound, "failed to read catalog %s", path)
	}
	return Load(content)
}

// MustLoad loads the catalog and panics if it is invalid
func MustLoad(content []byte) []model.Index {
	indexes, err := Load(content)
	if err != nil {
		panic(err)
	}
	return indexes
}
