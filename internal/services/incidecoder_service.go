package services

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

const defaultIncidecoderBaseURL = "https://incidecoder.com"

// IncidecoderService fetches product metadata from incidecoder.com. It is a
// thin collaborator behind the product-source interface; page-structure
// changes surface as fetch errors, not crashes.
type IncidecoderService struct {
	baseURL string
}

// NewIncidecoderService creates the service. An empty base URL falls back to
// the public site.
func NewIncidecoderService(baseURL string) *IncidecoderService {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultIncidecoderBaseURL
	}
	return &IncidecoderService{baseURL: strings.TrimRight(baseURL, "/")}
}

// ProductSummary is one search result row.
type ProductSummary struct {
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image"`
	URL         string `json:"url"`
}

// ProductData is the full metadata scraped from a product page.
type ProductData struct {
	Brand       string
	Name        string
	Description string
	Ingredients []string
	ImageURL    string
}

// Search looks up products by name and returns up to limit results.
func (s *IncidecoderService) Search(query string, limit int) ([]ProductSummary, error) {
	if limit <= 0 {
		limit = 5
	}

	searchURL := fmt.Sprintf("%s/search?query=%s", s.baseURL, url.QueryEscape(query))
	root, err := s.fetch(searchURL)
	if err != nil {
		return nil, err
	}

	summaries := []ProductSummary{}
	for _, link := range findAll(root, isSearchResultLink) {
		if len(summaries) >= limit {
			break
		}
		href := attr(link, "href")
		if href == "" {
			continue
		}
		productURL := s.baseURL + href
		data, err := s.FetchProduct(productURL)
		if err != nil {
			continue
		}
		summaries = append(summaries, ProductSummary{
			Brand:       data.Brand,
			Name:        data.Name,
			Description: data.Description,
			ImageURL:    data.ImageURL,
			URL:         productURL,
		})
	}
	return summaries, nil
}

// FetchProduct scrapes a single product page. The URL must belong to the
// configured source site.
func (s *IncidecoderService) FetchProduct(productURL string) (*ProductData, error) {
	if !strings.HasPrefix(productURL, s.baseURL+"/") {
		return nil, fmt.Errorf("product url %q is outside the product source", productURL)
	}

	root, err := s.fetch(productURL)
	if err != nil {
		return nil, err
	}

	data := &ProductData{
		Brand:       "Brand not found",
		Name:        "Name not found",
		Description: "Description not found",
		Ingredients: []string{},
	}

	if node := findFirst(root, matchElementClass("a", "underline")); node != nil {
		data.Brand = textOf(node)
	}
	if node := findFirst(root, matchElementID("span", "product-title")); node != nil {
		data.Name = textOf(node)
	}
	if node := findFirst(root, matchElementID("span", "product-details")); node != nil {
		data.Description = textOf(node)
	}
	if section := findFirst(root, matchElementClass("div", "showmore-section", "ingredlist-short-like-section")); section != nil {
		for _, link := range findAll(section, matchElementClass("a", "ingred-link", "black")) {
			if name := textOf(link); name != "" {
				data.Ingredients = append(data.Ingredients, name)
			}
		}
	}
	if picture := findFirst(root, matchElement("picture")); picture != nil {
		if img := findFirst(picture, matchElement("img")); img != nil {
			data.ImageURL = attr(img, "src")
		}
	}

	return data, nil
}

func (s *IncidecoderService) fetch(pageURL string) (*html.Node, error) {
	resp, err := httpClient.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return root, nil
}

// HTML helpers.

func isSearchResultLink(n *html.Node) bool {
	return matchElementClass("a", "klavika", "simpletextlistitem")(n)
}

func matchElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func matchElementClass(tag string, classes ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != tag {
			return false
		}
		have := strings.Fields(attr(n, "class"))
		for _, want := range classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
}

func matchElementID(tag, id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag && attr(n, "id") == id
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var nodes []*html.Node
	if match(n) {
		nodes = append(nodes, n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		nodes = append(nodes, findAll(child, match)...)
	}
	return nodes
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
