package productview_test

import (
	"testing"

	"kasir/pkg/productclient"
	"kasir/pkg/productview"

	"github.com/stretchr/testify/assert"
)

func catalog() []productclient.Product {
	return []productclient.Product{
		{ID: "1", Nama: "Kopi", JenisProduk: &productclient.Category{ID: 1, Name: "Minuman"}},
		{ID: "2", Nama: "Gula", JenisProduk: &productclient.Category{ID: 2, Name: "Sembako"}},
	}
}

func ids(products []productclient.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	products := catalog()

	tests := []struct {
		name     string
		query    string
		selected []string
		want     []string
	}{
		{"empty query keeps everything", "", nil, []string{"1", "2"}},
		{"name substring", "kop", nil, []string{"1"}},
		{"case insensitive", "GULA", nil, []string{"2"}},
		{"category name matches query", "minum", nil, []string{"1"}},
		{"category selection", "", []string{"Sembako"}, []string{"2"}},
		{"query and selection compose", "a", []string{"Sembako"}, []string{"2"}},
		{"several categories", "", []string{"Sembako", "Minuman"}, []string{"1", "2"}},
		{"nothing matches", "teh", nil, []string{}},
		{"spaces are part of the query", " kop", nil, []string{}},
		{"whitespace only query", "  ", nil, []string{}},
		{"unknown category", "", []string{"Elektronik"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(productview.Filter(products, tt.query, tt.selected)))
		})
	}
}

func TestFilter_ProductsWithoutCategory(t *testing.T) {
	products := append(catalog(), productclient.Product{ID: "3", Nama: "Sabun"})

	assert.Equal(t, []string{"3"}, ids(productview.Filter(products, "sab", nil)))
	assert.Equal(t, []string{"2"}, ids(productview.Filter(products, "", []string{"Sembako"})))
	assert.Len(t, products, 3, "the source collection is not modified")
}

func TestCategories(t *testing.T) {
	products := append(catalog(),
		productclient.Product{ID: "3", Nama: "Teh", JenisProduk: &productclient.Category{ID: 1, Name: "Minuman"}},
		productclient.Product{ID: "4", Nama: "Sabun"},
		productclient.Product{ID: "5", Nama: "Misteri", JenisProduk: &productclient.Category{ID: 9, Name: ""}},
	)
	assert.Equal(t, []string{"Minuman", "Sembako"}, productview.Categories(products))
	assert.Empty(t, productview.Categories(nil))
}
