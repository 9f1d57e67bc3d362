package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/app/events"
	"github.com/shashiranjanraj/shashikala/app/models"
	_ "github.com/shashiranjanraj/shashikala/database/migrations"
	"github.com/shashiranjanraj/shashikala/pkg/auth"
	"github.com/shashiranjanraj/shashikala/pkg/cache"
	"github.com/shashiranjanraj/shashikala/pkg/database"
	"github.com/shashiranjanraj/shashikala/pkg/event"
	"github.com/shashiranjanraj/shashikala/pkg/migration"
	"github.com/shashiranjanraj/shashikala/pkg/orm"
	"github.com/shashiranjanraj/shashikala/pkg/storage"
)

const pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) listen(d *event.Dispatcher, names ...string) {
	for _, name := range names {
		d.Listen(name, func(context.Context, any) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.names = append(r.names, name)
			return nil
		})
	}
}

func (r *recorder) fired() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

type fixture struct {
	svc  *Services
	disk *storage.LocalDisk
	rec  *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	_, err = migration.New(db).Run()
	require.NoError(t, err)

	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	dispatcher := event.NewDispatcher(nil)
	rec := &recorder{}
	rec.listen(dispatcher, events.DonationRecorded, events.RegistrationCreated,
		events.ContactReceived, events.CartItemAdded, events.ArtistSignedUp)

	signer := auth.NewSigner("test-secret", time.Hour)
	svc := New(Deps{
		DB:          db,
		Events:      dispatcher,
		Disk:        disk,
		Signer:      signer,
		Revocations: auth.NewRevocations(cache.NewMemoryStore(), signer),
	})
	return &fixture{svc: svc, disk: disk, rec: rec}
}

func (f *fixture) artist(t *testing.T, email string) *models.Artist {
	t.Helper()
	a, err := f.svc.Artists.Signup(context.Background(), SignupInput{Email: email, FirstName: "Ada", LastName: "Art"})
	require.NoError(t, err)
	return a
}

func ptr[T any](v T) *T { return &v }

func validationField(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	return ve.Field
}

func TestDonationCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Donations.Create(ctx, DonationInput{Name: "Jo", Amount: ptr(0.0)})
	require.NoError(t, err)
	assert.NotZero(t, d.ID)
	assert.Zero(t, d.Amount)
	assert.Nil(t, d.Email)
	assert.Equal(t, []string{events.DonationRecorded}, f.rec.fired())

	_, err = f.svc.Donations.Create(ctx, DonationInput{Name: "Jo"})
	assert.Equal(t, "amount", validationField(t, err))
	_, err = f.svc.Donations.Create(ctx, DonationInput{Amount: ptr(5.0)})
	assert.Equal(t, "name", validationField(t, err))

	list, page, err := f.svc.Donations.List(ctx, orm.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.EqualValues(t, 1, page.Total)
}

func TestRegistrationMissingFieldOrder(t *testing.T) {
	f := newFixture(t)
	full := RegistrationInput{
		FirstName: "A", LastName: "B", Email: "a@b.c", Contact: "555",
		PrimaryAddress: "1 Main", City: "X", State: "Y", Zipcode: "00001",
	}

	_, err := f.svc.Registrations.Create(context.Background(), RegistrationInput{})
	assert.Equal(t, "first_name", validationField(t, err))

	in := full
	in.City = ""
	in.Zipcode = ""
	_, err = f.svc.Registrations.Create(context.Background(), in)
	assert.Equal(t, "city", validationField(t, err))

	reg, err := f.svc.Registrations.Create(context.Background(), full)
	require.NoError(t, err)
	assert.Nil(t, reg.MiddleName)

	rows, _, err := f.svc.Registrations.List(context.Background(), orm.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.RegistrationSummary{ID: reg.ID, FirstName: "A", LastName: "B", Email: "a@b.c", Contact: "555"}, rows[0])
}

func TestContactCreate(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Contacts.Create(context.Background(), ContactInput{Name: "N", Email: "e@x.y"})
	assert.Equal(t, "message", validationField(t, err))

	c, err := f.svc.Contacts.Create(context.Background(), ContactInput{Name: "N", Email: "e@x.y", Message: "hi"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, []string{events.ContactReceived}, f.rec.fired())
}

func TestEventLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Events.Create(ctx, EventInput{Title: "Gala", Date: "not a date"})
	assert.Equal(t, "date", validationField(t, err))

	ev, err := f.svc.Events.Create(ctx, EventInput{Title: "Gala", Date: "2026-05-01"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), ev.Date.UTC())

	require.NoError(t, f.svc.Events.Update(ctx, ev.ID, EventUpdate{Description: ptr("Black tie")}))
	got, err := f.svc.Events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gala", got.Title)
	assert.Equal(t, "Black tie", *got.Description)

	err = f.svc.Events.Update(ctx, ev.ID, EventUpdate{Title: ptr("  ")})
	assert.Equal(t, "title", validationField(t, err))

	require.NoError(t, f.svc.Events.Delete(ctx, ev.ID))
	assert.ErrorIs(t, f.svc.Events.Delete(ctx, ev.ID), ErrNotFound)
	_, err = f.svc.Events.Get(ctx, ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Events.Update(ctx, 999, EventUpdate{}), ErrNotFound)
}

func TestArtistSignupAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Artists.Signup(ctx, SignupInput{
		Email: "ada@art.io", FirstName: "Ada", LastName: "Lovelace", Password: ptr("correct horse"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@art.io", a.Username)
	assert.Equal(t, "Ada Lovelace", a.Name)
	assert.NotEqual(t, "correct horse", a.PasswordHash)

	_, err = f.svc.Artists.Signup(ctx, SignupInput{Email: "ada@art.io", FirstName: "A", LastName: "B"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Artist with this email already exists", conflict.Message)

	_, err = f.svc.Artists.Signup(ctx, SignupInput{Email: "nope", FirstName: "A", LastName: "B"})
	assert.Equal(t, "email", validationField(t, err))
	_, err = f.svc.Artists.Signup(ctx, SignupInput{Email: "b@art.io", FirstName: "A", LastName: "B", Password: ptr("short")})
	assert.Equal(t, "password", validationField(t, err))

	_, err = f.svc.Artists.Login(ctx, LoginInput{Email: "ada@art.io", Password: ptr("wrong password")})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Artists.Login(ctx, LoginInput{Email: "ada@art.io"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Artists.Login(ctx, LoginInput{Email: "ghost@art.io"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := f.svc.Artists.Login(ctx, LoginInput{Email: "ada@art.io", Password: ptr("correct horse")})
	require.NoError(t, err)
	assert.Equal(t, a.ID, res.ArtistID)
	assert.NotEmpty(t, res.Token)

	claims, err := f.svc.Artists.signer.Parse(res.Token)
	require.NoError(t, err)
	require.NoError(t, f.svc.Artists.Logout(ctx, claims))
	revoked, err := f.svc.Artists.revocations.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestArtistPasswordlessLogin(t *testing.T) {
	f := newFixture(t)
	a := f.artist(t, "legacy@art.io")

	res, err := f.svc.Artists.Login(context.Background(), LoginInput{Email: "legacy@art.io"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, res.ArtistID)
}

func TestArtistProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.artist(t, "p@art.io")

	require.NoError(t, f.svc.Artists.UpdateProfile(ctx, a.ID, ProfileUpdate{Bio: ptr("Paints")}))
	got, err := f.svc.Artists.Profile(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Art", got.Name)
	assert.Equal(t, "Paints", got.Bio)

	err = f.svc.Artists.UpdateProfile(ctx, a.ID, ProfileUpdate{Name: ptr("")})
	assert.Equal(t, "name", validationField(t, err))
	_, err = f.svc.Artists.Profile(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductCreateRequiresArtist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Products.Create(ctx, ProductInput{Name: "Vase", Price: ptr(10.0), Stock: ptr(1), ArtistID: ptr(uint(77))})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Artist not found", ve.Message)

	_, err = f.svc.Products.Create(ctx, ProductInput{Name: "Vase", Price: ptr(10.0), ArtistID: ptr(uint(1))})
	assert.Equal(t, "stock", validationField(t, err))

	a := f.artist(t, "owner@art.io")
	p, err := f.svc.Products.Create(ctx, ProductInput{Name: "Vase", Price: ptr(10.0), Stock: ptr(0), ArtistID: &a.ID})
	require.NoError(t, err)
	assert.Empty(t, p.Description)

	other := f.artist(t, "other@art.io")
	_, err = f.svc.Products.CreateForArtist(ctx, other.ID, ArtworkInput{Name: "Bowl", Description: "Clay", Price: ptr(3.5)})
	require.NoError(t, err)

	all, page, err := f.svc.Products.List(ctx, orm.Page{}, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 2, page.Total)

	mine, _, err := f.svc.Products.List(ctx, orm.Page{}, a.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ID)

	_, err = f.svc.Products.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArtworkDefaultsAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.artist(t, "a@art.io")
	b := f.artist(t, "b@art.io")

	_, err := f.svc.Products.CreateForArtist(ctx, a.ID, ArtworkInput{Name: "Print", Price: ptr(1.0)})
	assert.Equal(t, "description", validationField(t, err))

	art, err := f.svc.Products.CreateForArtist(ctx, a.ID, ArtworkInput{Name: "Print", Description: "Ink", Price: ptr(1.0)})
	require.NoError(t, err)
	assert.Equal(t, 1, art.Stock)
	assert.Equal(t, a.ID, art.ArtistID)

	assert.ErrorIs(t, f.svc.Products.DeleteForArtist(ctx, b.ID, art.ID), ErrNotFound)
	require.NoError(t, f.svc.Products.DeleteForArtist(ctx, a.ID, art.ID))
	assert.ErrorIs(t, f.svc.Products.DeleteForArtist(ctx, a.ID, art.ID), ErrNotFound)
}

func TestArtworkDeleteRestrictedByCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.artist(t, "a@art.io")
	art, err := f.svc.Products.CreateForArtist(ctx, a.ID, ArtworkInput{Name: "Print", Description: "Ink", Price: ptr(1.0)})
	require.NoError(t, err)

	item, err := f.svc.Cart.Add(ctx, CartAddInput{UserID: "u1", ProductID: &art.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Products.DeleteForArtist(ctx, a.ID, art.ID), ErrReferenced)
	_, err = f.svc.Products.Get(ctx, art.ID)
	require.NoError(t, err, "a referenced artwork is kept")

	require.NoError(t, f.svc.Cart.Remove(ctx, item.ID))
	require.NoError(t, f.svc.Products.DeleteForArtist(ctx, a.ID, art.ID))
}

func TestAttachImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.artist(t, "a@art.io")
	art, err := f.svc.Products.CreateForArtist(ctx, a.ID, ArtworkInput{Name: "Print", Description: "Ink", Price: ptr(1.0)})
	require.NoError(t, err)

	_, err = f.svc.Products.AttachImage(ctx, a.ID, art.ID, strings.NewReader("plain text, not an image"))
	assert.Equal(t, "image", validationField(t, err))
	_, err = f.svc.Products.AttachImage(ctx, a.ID+1, art.ID, strings.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := f.svc.Products.AttachImage(ctx, a.ID, art.ID, strings.NewReader(pngHeader+"one"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "/storage/artworks/"), first)
	assert.True(t, strings.HasSuffix(first, ".png"), first)

	firstPath, ok := f.disk.PathOf(first)
	require.True(t, ok)
	rc, err := f.disk.Open(ctx, firstPath)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, pngHeader+"one", string(body))

	second, err := f.svc.Products.AttachImage(ctx, a.ID, art.ID, strings.NewReader(pngHeader+"two"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	exists, err := f.disk.Exists(ctx, firstPath)
	require.NoError(t, err)
	assert.False(t, exists, "the replaced image is removed")

	got, err := f.svc.Products.Get(ctx, art.ID)
	require.NoError(t, err)
	assert.Equal(t, second, got.ImageURL)

	require.NoError(t, f.svc.Products.DeleteForArtist(ctx, a.ID, art.ID))
	secondPath, _ := f.disk.PathOf(second)
	exists, err = f.disk.Exists(ctx, secondPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.artist(t, "a@art.io")
	art, err := f.svc.Products.CreateForArtist(ctx, a.ID, ArtworkInput{Name: "Print", Description: "Ink", Price: ptr(2.5)})
	require.NoError(t, err)

	_, err = f.svc.Cart.Add(ctx, CartAddInput{UserID: "u1", ProductID: ptr(uint(999))})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Product not found", ve.Message)
	_, err = f.svc.Cart.Add(ctx, CartAddInput{ProductID: &art.ID})
	assert.Equal(t, "user_id", validationField(t, err))

	one, err := f.svc.Cart.Add(ctx, CartAddInput{UserID: "u1", ProductID: &art.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, one.Quantity)
	_, err = f.svc.Cart.Add(ctx, CartAddInput{UserID: "u1", ProductID: &art.ID, Quantity: ptr(3)})
	require.NoError(t, err)

	lines, err := f.svc.Cart.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 2, "repeated adds are separate lines")
	assert.Equal(t, "Print", lines[0].Product.Name)
	assert.Equal(t, 3, lines[1].Quantity)

	empty, err := f.svc.Cart.ListForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	updated, err := f.svc.Cart.Update(ctx, one.ID, CartUpdateInput{Quantity: ptr(-2)})
	require.NoError(t, err)
	assert.Equal(t, -2, updated.Quantity)
	_, err = f.svc.Cart.Update(ctx, one.ID, CartUpdateInput{})
	assert.Equal(t, "quantity", validationField(t, err))
	_, err = f.svc.Cart.Update(ctx, 999, CartUpdateInput{Quantity: ptr(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.svc.Cart.Remove(ctx, one.ID))
	assert.ErrorIs(t, f.svc.Cart.Remove(ctx, one.ID), ErrNotFound)

	assert.Contains(t, f.rec.fired(), events.CartItemAdded)
}
