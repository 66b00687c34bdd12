package productview

import (
	"context"
	"errors"

	"kasir/pkg/productclient"
	"kasir/pkg/productform"
)

// Messages shown after row actions.
const (
	MessageDeleted        = "Produk berhasil dihapus"
	MessageDeleteConflict = "Produk tidak dapat dihapus karena sudah tercatat pada transaksi"
	MessageDeleteFailed   = "Produk gagal dihapus"
	MessageCreated        = "Produk berhasil ditambahkan"
	MessageUpdated        = "Produk berhasil diperbarui"
	MessageSaveFailed     = "Produk gagal disimpan"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is a dismissible message about the last action.
type Notification struct {
	Type    NotificationType
	Message string
}

// Store is the part of productstore.Store the view dispatches to.
type Store interface {
	Products() []productclient.Product
	LoadAll(ctx context.Context, page int) error
	Create(ctx context.Context, payload productclient.Payload) (productclient.Product, error)
	Update(ctx context.Context, id string, payload productclient.Payload) (productclient.Product, error)
	Delete(ctx context.Context, id string) error
}

// View holds the state of the list screen. It never changes products
// itself; every mutation goes through the store.
type View struct {
	store Store
	form  *productform.Form

	query        string
	selected     []string
	openMenu     string
	notification *Notification
}

func New(store Store) *View {
	return &View{
		store: store,
		form:  &productform.Form{},
	}
}

// Form is the add/edit form owned by the view.
func (v *View) Form() *productform.Form { return v.form }

// Rows is the collection after the search and category filters.
func (v *View) Rows() []productclient.Product {
	return Filter(v.store.Products(), v.query, v.selected)
}

// Categories offered by the category filter.
func (v *View) Categories() []string {
	return Categories(v.store.Products())
}

func (v *View) SetQuery(query string) { v.query = query }

func (v *View) Query() string { return v.query }

// ToggleCategory adds name to the category filter, or removes it when present.
func (v *View) ToggleCategory(name string) {
	for i, s := range v.selected {
		if s == name {
			v.selected = append(v.selected[:i:i], v.selected[i+1:]...)
			return
		}
	}
	v.selected = append(v.selected, name)
}

func (v *View) Selected() []string {
	out := make([]string, len(v.selected))
	copy(out, v.selected)
	return out
}

func (v *View) ClearFilter() { v.selected = nil }

// ToggleMenu opens the action menu of a row, closing any other. Toggling the
// open row closes it.
func (v *View) ToggleMenu(id string) {
	if v.openMenu == id {
		v.openMenu = ""
		return
	}
	v.openMenu = id
}

// OpenMenu is the id of the row whose menu is open, or "".
func (v *View) OpenMenu() string { return v.openMenu }

// Add opens a blank form.
func (v *View) Add() {
	v.openMenu = ""
	v.form.Open(nil)
}

// Edit opens the form seeded with the product. It reports false when the
// product is not in the collection.
func (v *View) Edit(id string) bool {
	v.openMenu = ""
	for _, p := range v.store.Products() {
		if p.ID == id {
			v.form.Open(&p)
			return true
		}
	}
	return false
}

// Delete asks the store to delete the product and returns the notification
// to show. The server's message wins over the built-in fallbacks.
func (v *View) Delete(ctx context.Context, id string) Notification {
	v.openMenu = ""
	err := v.store.Delete(ctx, id)
	if err == nil {
		return v.notify(NotificationSuccess, MessageDeleted)
	}

	message := productclient.ServerMessage(err)
	if message == "" {
		message = MessageDeleteFailed
		if errors.Is(err, productclient.ErrConflict) {
			message = MessageDeleteConflict
		}
	}
	return v.notify(NotificationError, message)
}

// SetPage loads another page into the store.
func (v *View) SetPage(ctx context.Context, page int) error {
	return v.store.LoadAll(ctx, page)
}

// Submit sends the form: an update when a product is being edited, a create
// otherwise. The form closes either way; failures become an error notification.
func (v *View) Submit(ctx context.Context) error {
	editing := v.form.EditingID()
	err := v.form.Submit(ctx, func(ctx context.Context, payload productclient.Payload) error {
		if editing != "" {
			_, err := v.store.Update(ctx, editing, payload)
			return err
		}
		_, err := v.store.Create(ctx, payload)
		return err
	})

	switch {
	case err != nil:
		message := productclient.ServerMessage(err)
		if message == "" {
			message = MessageSaveFailed
		}
		v.notify(NotificationError, message)
	case editing != "":
		v.notify(NotificationSuccess, MessageUpdated)
	default:
		v.notify(NotificationSuccess, MessageCreated)
	}
	return err
}

// Notification returns the pending notification, if any.
func (v *View) Notification() (Notification, bool) {
	if v.notification == nil {
		return Notification{}, false
	}
	return *v.notification, true
}

func (v *View) DismissNotification() { v.notification = nil }

func (v *View) notify(t NotificationType, message string) Notification {
	n := Notification{Type: t, Message: message}
	v.notification = &n
	return n
}
