package api

import (
	_ "embed"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"
)

//go:embed openapi.yaml
var openAPIYAML []byte

var (
	openAPIJSON    []byte
	openAPIJSONErr error
	openAPIOnce    sync.Once
)

// OpenAPIDocument returns the embedded API description converted to JSON.
func OpenAPIDocument() ([]byte, error) {
	openAPIOnce.Do(func() {
		openAPIJSON, openAPIJSONErr = yaml.YAMLToJSON(openAPIYAML)
	})
	return openAPIJSON, openAPIJSONErr
}

func OpenAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := OpenAPIDocument()
		if err != nil {
			http.Error(w, "openapi unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc)
	}
}
