package lessons

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed catalog.json
var catalogJSON []byte

var (
	catalogOnce sync.Once
	catalog     []Lesson
	catalogErr  error
)

// Catalog returns the built-in lesson set, decoded through the same
// validated path as backend lessons. It is the offline fallback when
// the backend catalog cannot be fetched.
func Catalog() ([]Lesson, error) {
	catalogOnce.Do(func() {
		catalog, catalogErr = DecodeList(catalogJSON)
		if catalogErr == nil && len(catalog) == 0 {
			catalogErr = fmt.Errorf("embedded catalog is empty")
		}
	})
	return catalog, catalogErr
}
