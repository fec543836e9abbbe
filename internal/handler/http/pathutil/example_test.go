package pathutil_test

import (
	"fmt"

	"newsdesk/internal/handler/http/pathutil"
)

// ExampleNormalizePath demonstrates how path normalization keeps metrics
// labels bounded: every slug maps to the same route template.
func ExampleNormalizePath() {
	fmt.Println(pathutil.NormalizePath("/news/hello-world"))
	fmt.Println(pathutil.NormalizePath("/news/go-1-25-released"))
	fmt.Println(pathutil.NormalizePath("/admin/news/new"))

	// Output:
	// /news/:slug
	// /news/:slug
	// /admin/news/new
}
