// Package productclient talks to the product, category and transaction API
// over HTTP. Every call is made exactly once; nothing is retried.
package productclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Category is a product category.
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Product as returned by the API.
type Product struct {
	ID          string    `json:"id"`
	Nama        string    `json:"nama"`
	Kode        string    `json:"kode"`
	Merk        string    `json:"merk"`
	Stok        int       `json:"stok"`
	Harga       int64     `json:"harga"`
	HargaBeli   int64     `json:"hargaBeli"`
	JenisProduk *Category `json:"jenisProduk,omitempty"`
	Gambar      string    `json:"gambar,omitempty"`
}

// CategoryName returns the display name of the product's category, or "".
func (p Product) CategoryName() string {
	if p.JenisProduk == nil {
		return ""
	}
	return p.JenisProduk.Name
}

// Image is an image file attached to a create or update.
type Image struct {
	Filename string
	Content  io.Reader
}

// Payload is the writable part of a product. JenisProduk holds a category id
// as text, empty for none. Gambar is sent only when set.
type Payload struct {
	Nama        string
	Kode        string
	Merk        string
	Stok        int
	Harga       int64
	HargaBeli   int64
	JenisProduk string
	Gambar      *Image
}

// Pagination is the cursor reported by GET /product. Total counts the
// products on all pages.
type Pagination struct {
	Page      int
	Limit     int
	TotalPage int
	Total     int
}

// Page is one page of products.
type Page struct {
	Products   []Product
	Pagination Pagination
}

// Client calls the API rooted at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a Client. A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// WithToken returns a copy of the client that sends a bearer token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// List fetches one page of products. Pages start at 1.
func (c *Client) List(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{"page": {strconv.Itoa(page)}}

	var products []Product
	resp, err := c.do(ctx, http.MethodGet, "/product?"+query.Encode(), nil, "", &products)
	if err != nil {
		return Page{}, err
	}
	if products == nil {
		products = []Product{}
	}

	pagination := Pagination{
		Page:      headerInt(resp, "X-Page", page),
		Limit:     headerInt(resp, "X-Limit", len(products)),
		TotalPage: headerInt(resp, "X-Total-Pages", page),
		Total:     headerInt(resp, "X-Total-Count", len(products)),
	}
	return Page{Products: products, Pagination: pagination}, nil
}

// Get fetches a single product.
func (c *Client) Get(ctx context.Context, id string) (Product, error) {
	var product Product
	_, err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, "", &product)
	return product, err
}

// Create stores a new product and returns it as saved by the server.
func (c *Client) Create(ctx context.Context, payload Payload) (Product, error) {
	body, contentType, err := encodePayload(payload)
	if err != nil {
		return Product{}, err
	}
	var product Product
	_, err = c.do(ctx, http.MethodPost, "/product", body, contentType, &product)
	return product, err
}

// Update replaces every field of a product.
func (c *Client) Update(ctx context.Context, id string, payload Payload) (Product, error) {
	body, contentType, err := encodePayload(payload)
	if err != nil {
		return Product{}, err
	}
	var product Product
	_, err = c.do(ctx, http.MethodPut, "/product/"+url.PathEscape(id), body, contentType, &product)
	return product, err
}

// Delete removes a product. Products referenced by a transaction fail with ErrConflict.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/product/"+url.PathEscape(id), nil, "", nil)
	return err
}

// Categories lists every category.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	_, err := c.do(ctx, http.MethodGet, "/category", nil, "", &categories)
	return categories, err
}

// CreateCategory stores a new category.
func (c *Client) CreateCategory(ctx context.Context, name string) (Category, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return Category{}, err
	}
	var category Category
	_, err = c.do(ctx, http.MethodPost, "/category", bytes.NewReader(body), "application/json", &category)
	return category, err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("productclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp, &Error{Kind: KindServer, Status: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Kind: kindOf(resp.StatusCode), Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string            `json:"message"`
		Error   string            `json:"error"`
		Errors  map[string]string `json:"errors"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
		apiErr.Fields = body.Errors
	}
	return apiErr
}

// encodePayload writes the multipart form the product endpoints accept.
func encodePayload(p Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"nama", p.Nama},
		{"kode", p.Kode},
		{"stok", strconv.Itoa(p.Stok)},
		{"harga", strconv.FormatInt(p.Harga, 10)},
		{"hargaBeli", strconv.FormatInt(p.HargaBeli, 10)},
		{"merk", p.Merk},
		{"jenis_produk", p.JenisProduk},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("productclient: encode %s: %w", f[0], err)
		}
	}

	if p.Gambar != nil && p.Gambar.Content != nil {
		part, err := w.CreateFormFile("gambar", p.Gambar.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("productclient: encode image: %w", err)
		}
		if _, err := io.Copy(part, p.Gambar.Content); err != nil {
			return nil, "", fmt.Errorf("productclient: read image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("productclient: finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func headerInt(resp *http.Response, name string, fallback int) int {
	if v, err := strconv.Atoi(resp.Header.Get(name)); err == nil {
		return v
	}
	return fallback
}
