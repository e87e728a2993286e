package scanner

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pynezz/gungnir/internal/util"
	"github.com/pynezz/gungnir/pkg/types"
)

// Input types worth injecting into. Inputs without a type attribute
// count as "text".
var textLikeInputs = map[string]bool{
	"text":     true,
	"search":   true,
	"url":      true,
	"email":    true,
	"password": true,
}

// Crawler fetches a target page once and extracts injectable surfaces.
// It never traverses beyond the requested page: max_depth is accepted
// at intake but the crawl is single-page.
type Crawler struct {
	client *http.Client
}

// NewCrawler creates a crawler with pooled connections and the given
// fetch timeout
func NewCrawler(timeout time.Duration) *Crawler {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &Crawler{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Crawl extracts the injectable surfaces of the target. A fetch or
// parse failure is caught here and degrades the result to zero
// surfaces, it never fails the scan that requested the crawl.
func (c *Crawler) Crawl(ctx context.Context, targetURL string, includeForms, includeURLs bool) []types.Surface {
	surfaces, err := c.crawl(ctx, targetURL, includeForms, includeURLs)
	if err != nil {
		util.PrintWarning("Crawl degraded to zero surfaces: " + err.Error())
		return nil
	}
	return surfaces
}

func (c *Crawler) crawl(ctx context.Context, targetURL string, includeForms, includeURLs bool) ([]types.Surface, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, &types.FetchError{URL: targetURL, Err: err}
	}
	baseURL := parsed.Scheme + "://" + parsed.Host

	// The page is fetched exactly once, whether or not forms are
	// wanted. A failure here suppresses every surface kind.
	doc, err := c.fetch(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	var surfaces []types.Surface

	if includeForms {
		surfaces = append(surfaces, extractForms(doc, baseURL)...)
	}

	// Query parameters of the target itself, split on the raw query
	// string so order and duplicates survive
	if includeURLs && strings.Contains(targetURL, "?") {
		rawQuery := targetURL[strings.Index(targetURL, "?")+1:]
		for _, param := range strings.Split(rawQuery, "&") {
			if !strings.Contains(param, "=") {
				continue
			}
			surfaces = append(surfaces, types.Surface{
				Kind:      types.SurfaceURLParameter,
				Endpoint:  targetURL,
				Parameter: param[:strings.Index(param, "=")],
			})
		}
	}

	return surfaces, nil
}

func (c *Crawler) fetch(ctx context.Context, targetURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &types.FetchError{URL: targetURL, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: targetURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.FetchError{URL: targetURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, &types.ParseError{URL: targetURL, Err: err}
	}
	return doc, nil
}

func extractForms(doc *html.Node, baseURL string) []types.Surface {
	var surfaces []types.Surface
	walkNodes(doc, "form", func(form *html.Node) {
		action := attrValue(form, "action")
		if !strings.HasPrefix(action, "http") {
			action = baseURL + action
		}

		for _, tag := range []string{"input", "textarea", "select"} {
			walkNodes(form, tag, func(field *html.Node) {
				name := attrValue(field, "name")
				if name == "" {
					name = "unknown"
				}
				fieldType := attrValue(field, "type")
				if fieldType == "" {
					fieldType = "text"
				}
				if !textLikeInputs[fieldType] {
					return
				}
				surfaces = append(surfaces, types.Surface{
					Kind:      types.SurfaceFormInput,
					Endpoint:  action,
					Parameter: name,
				})
			})
		}
	})

	return surfaces
}

// walkNodes calls fn on every element node with the given tag under n
func walkNodes(n *html.Node, tag string, fn func(*html.Node)) {
	if n.Type == html.ElementNode && n.Data == tag {
		fn(n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walkNodes(child, tag, fn)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
