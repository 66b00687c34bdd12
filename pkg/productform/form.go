// Package productform holds the field state of the add/edit product form.
package productform

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kasir/pkg/productclient"
)

// Field names accepted by Set, matching the multipart field names.
const (
	FieldNama        = "nama"
	FieldKode        = "kode"
	FieldMerk        = "merk"
	FieldStok        = "stok"
	FieldHarga       = "harga"
	FieldHargaBeli   = "hargaBeli"
	FieldJenisProduk = "jenis_produk"
)

// SubmitFunc persists the assembled payload, usually through the store.
type SubmitFunc func(ctx context.Context, payload productclient.Payload) error

// Form is a controlled product form. The zero value is a closed, blank form.
type Form struct {
	Nama        string
	Kode        string
	Merk        string
	Stok        int
	Harga       int64
	HargaBeli   int64
	JenisProduk string
	Gambar      *productclient.Image

	editing string
	open    bool
}

// Reset seeds the fields from product for editing, or blanks them for a new
// product when product is nil. Any previously chosen image is dropped.
func (f *Form) Reset(product *productclient.Product) {
	*f = Form{open: f.open}
	if product == nil {
		return
	}
	f.editing = product.ID
	f.Nama = product.Nama
	f.Kode = product.Kode
	f.Merk = product.Merk
	f.Stok = product.Stok
	f.Harga = product.Harga
	f.HargaBeli = product.HargaBeli
	if product.JenisProduk != nil {
		f.JenisProduk = strconv.FormatUint(uint64(product.JenisProduk.ID), 10)
	}
}

// Open shows the form seeded from product (nil for a new one).
func (f *Form) Open(product *productclient.Product) {
	f.Reset(product)
	f.open = true
}

func (f *Form) Close() { f.open = false }

func (f *Form) IsOpen() bool { return f.open }

// EditingID is the id of the product being edited, or "" in create mode.
func (f *Form) EditingID() string { return f.editing }

// Set assigns a field from its text input. Numeric fields must parse as
// integers; an empty numeric input means zero.
func (f *Form) Set(field, value string) error {
	switch field {
	case FieldNama:
		f.Nama = value
	case FieldKode:
		f.Kode = value
	case FieldMerk:
		f.Merk = value
	case FieldJenisProduk:
		f.JenisProduk = value
	case FieldStok:
		n, err := parseInt(field, value)
		if err != nil {
			return err
		}
		f.Stok = int(n)
	case FieldHarga:
		n, err := parseInt(field, value)
		if err != nil {
			return err
		}
		f.Harga = n
	case FieldHargaBeli:
		n, err := parseInt(field, value)
		if err != nil {
			return err
		}
		f.HargaBeli = n
	default:
		return fmt.Errorf("productform: unknown field %q", field)
	}
	return nil
}

// SetImage attaches the image chosen by the user.
func (f *Form) SetImage(filename string, content io.Reader) {
	f.Gambar = &productclient.Image{Filename: filename, Content: content}
}

// Payload assembles the submission from the current fields. The image is
// included only when one was chosen.
func (f *Form) Payload() productclient.Payload {
	return productclient.Payload{
		Nama:        f.Nama,
		Kode:        f.Kode,
		Merk:        f.Merk,
		Stok:        f.Stok,
		Harga:       f.Harga,
		HargaBeli:   f.HargaBeli,
		JenisProduk: f.JenisProduk,
		Gambar:      f.Gambar,
	}
}

// Submit hands the payload to onSubmit and blocks until it returns; the
// form stays open meanwhile and is closed afterwards whatever the outcome.
// The error of onSubmit is returned untouched.
func (f *Form) Submit(ctx context.Context, onSubmit SubmitFunc) error {
	payload := f.Payload()
	defer f.Close()
	return onSubmit(ctx, payload)
}

func parseInt(field, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("productform: %s must be a whole number: %w", field, err)
	}
	return n, nil
}
