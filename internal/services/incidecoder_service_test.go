package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<ul>
<li><a class="klavika simpletextlistitem" href="/products/renewal-serum">Acme Renewal Serum</a></li>
<li><a class="klavika simpletextlistitem" href="/products/daily-lotion">Acme Daily Lotion</a></li>
</ul>
</body></html>`

const productPage = `<html><body>
<a class="underline" href="/brands/acme">Acme</a>
<h1><span id="product-title">Renewal Serum</span></h1>
<span id="product-details">A gentle overnight serum.</span>
<div class="showmore-section ingredlist-short-like-section">
  <a class="ingred-link black" href="/ingredients/aqua">Aqua</a>
  <a class="ingred-link black" href="/ingredients/retinol">Retinol</a>
  <a class="ingred-link black" href="/ingredients/sodium-hyaluronate">Sodium Hyaluronate</a>
</div>
<picture><source srcset="/img/serum.webp"><img src="/img/serum.jpg" alt="Renewal Serum"></picture>
</body></html>`

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchPage))
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(productPage))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchProduct(t *testing.T) {
	server := newFixtureServer(t)
	service := NewIncidecoderService(server.URL)

	data, err := service.FetchProduct(server.URL + "/products/renewal-serum")
	require.NoError(t, err)

	assert.Equal(t, "Acme", data.Brand)
	assert.Equal(t, "Renewal Serum", data.Name)
	assert.Equal(t, "A gentle overnight serum.", data.Description)
	assert.Equal(t, []string{"Aqua", "Retinol", "Sodium Hyaluronate"}, data.Ingredients)
	assert.Equal(t, "/img/serum.jpg", data.ImageURL)
}

func TestFetchProductRejectsForeignURL(t *testing.T) {
	server := newFixtureServer(t)
	service := NewIncidecoderService(server.URL)

	_, err := service.FetchProduct("https://example.com/products/renewal-serum")
	assert.Error(t, err)
}

func TestSearchCollectsResults(t *testing.T) {
	server := newFixtureServer(t)
	service := NewIncidecoderService(server.URL)

	results, err := service.Search("renewal", 5)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Acme", results[0].Brand)
	assert.Equal(t, "Renewal Serum", results[0].Name)
	assert.Equal(t, server.URL+"/products/renewal-serum", results[0].URL)
}

func TestSearchHonorsLimit(t *testing.T) {
	server := newFixtureServer(t)
	service := NewIncidecoderService(server.URL)

	results, err := service.Search("renewal", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
