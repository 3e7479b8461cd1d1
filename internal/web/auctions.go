package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mercadolance/lanceweb/internal/api"
	"github.com/mercadolance/lanceweb/internal/auth"
)

// endTimeLayout is the value format of a datetime-local form input.
const endTimeLayout = "2006-01-02T15:04"

// checkEndTime applies the form-boundary end-time check: exactly 16
// characters with a colon, and parseable as a local date-time.
func checkEndTime(raw string) error {
	if len(raw) != 16 || !strings.Contains(raw, ":") {
		return ErrEndTimeFormat
	}
	if _, err := time.ParseInLocation(endTimeLayout, raw, time.Local); err != nil {
		return ErrEndTimeFormat
	}
	return nil
}

type createAuctionPage struct {
	Session  *auth.Session
	Products []api.Product
	Form     createAuctionForm
	Error    string
}

type createAuctionForm struct {
	Title         string  `validate:"required"`
	Description   string  `validate:"required"`
	StartingPrice float64 `validate:"gt=0"`
	EndTime       string  `validate:"required"`
	ProductID     int64
	NewProduct    string
}

// CreateAuctionForm renders the creation form with the product list.
func (h *Handler) CreateAuctionForm(w http.ResponseWriter, r *http.Request) {
	page := createAuctionPage{Session: SessionFrom(r.Context())}
	products, err := h.api.Products(r.Context())
	if err != nil {
		h.log.Warnw("[WEB] products fetch failed", "error", err)
		page.Error = "could not load products"
	} else {
		page.Products = products
	}
	h.render(w, http.StatusOK, "create_auction.html", page)
}

// CreateAuction validates the form, creates the inline product when one
// was entered, posts the auction and redirects to its detail page.
func (h *Handler) CreateAuction(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderCreateError(w, r, createAuctionForm{}, "invalid form submission")
		return
	}
	price, _ := strconv.ParseFloat(r.FormValue("startingPrice"), 64)
	productID, _ := strconv.ParseInt(r.FormValue("productId"), 10, 64)
	form := createAuctionForm{
		Title:         strings.TrimSpace(r.FormValue("title")),
		Description:   strings.TrimSpace(r.FormValue("description")),
		StartingPrice: price,
		EndTime:       r.FormValue("endTime"),
		ProductID:     productID,
		NewProduct:    strings.TrimSpace(r.FormValue("newProduct")),
	}

	if err := validate.Struct(form); err != nil {
		h.renderCreateError(w, r, form, "all fields are required and the starting price must be positive")
		return
	}
	if err := checkEndTime(form.EndTime); err != nil {
		h.renderCreateError(w, r, form, err.Error())
		return
	}
	if !sess.Resolved() {
		h.renderCreateError(w, r, form, ErrUserNotResolved.Error())
		return
	}

	if form.NewProduct != "" {
		product, err := h.api.CreateProduct(r.Context(), sess.Token, form.NewProduct)
		if err != nil {
			h.renderCreateError(w, r, form, api.UserMessage(err, "failed to create product"))
			return
		}
		form.ProductID = product.ID
	}
	if form.ProductID == 0 {
		h.renderCreateError(w, r, form, ErrProductMissing.Error())
		return
	}

	auctionID, err := h.api.CreateAuction(r.Context(), sess.Token, api.CreateAuctionRequest{
		Title:         form.Title,
		Description:   form.Description,
		ProductID:     form.ProductID,
		CreatorID:     sess.UserID,
		StartingPrice: form.StartingPrice,
		EndTime:       form.EndTime + ":00",
	})
	if err != nil {
		h.renderCreateError(w, r, form, api.UserMessage(err, "failed to create auction, check the data and try again"))
		return
	}
	http.Redirect(w, r, "/auction/"+strconv.FormatInt(auctionID, 10), http.StatusSeeOther)
}

func (h *Handler) renderCreateError(w http.ResponseWriter, r *http.Request, form createAuctionForm, msg string) {
	page := createAuctionPage{Session: SessionFrom(r.Context()), Form: form, Error: msg}
	if products, err := h.api.Products(r.Context()); err == nil {
		page.Products = products
	}
	h.render(w, http.StatusOK, "create_auction.html", page)
}

type myAuctionsPage struct {
	Session  *auth.Session
	Auctions []api.Auction
	EditID   int64
	Error    string
}

// MyAuctions lists the auctions the signed-in user created, with inline
// edit affordances for the ACTIVE ones.
func (h *Handler) MyAuctions(w http.ResponseWriter, r *http.Request) {
	editID, _ := strconv.ParseInt(r.URL.Query().Get("edit"), 10, 64)
	h.renderMyAuctions(w, r, editID, "")
}

func (h *Handler) renderMyAuctions(w http.ResponseWriter, r *http.Request, editID int64, errMsg string) {
	sess := SessionFrom(r.Context())
	page := myAuctionsPage{Session: sess, EditID: editID, Error: errMsg}

	if !sess.Resolved() {
		if page.Error == "" {
			page.Error = ErrUserNotResolved.Error()
		}
		h.render(w, http.StatusOK, "my_auctions.html", page)
		return
	}

	result, err := h.api.SearchAuctions(r.Context(), sess.Token, sess.UserID, 0, 20)
	if err != nil {
		h.log.Warnw("[WEB] my auctions fetch failed", "creator", sess.UserID, "error", err)
		if page.Error == "" {
			page.Error = "could not load your auctions"
		}
	} else {
		page.Auctions = result.Content
	}
	h.render(w, http.StatusOK, "my_auctions.html", page)
}

// legalTransition reflects the server-side lifecycle: an ACTIVE auction
// may stay ACTIVE or be cancelled; nothing else is editable here.
func legalTransition(from, to api.AuctionStatus) bool {
	if from != api.StatusActive {
		return false
	}
	return to == api.StatusActive || to == api.StatusCancelled
}

// UpdateAuction persists an inline edit of description, end time and
// status, restricted to ACTIVE auctions and legal transitions.
func (h *Handler) UpdateAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := parseAuctionID(chi.URLParam(r, "auctionID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	sess := SessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderMyAuctions(w, r, auctionID, "invalid form submission")
		return
	}

	current, err := h.api.Auction(r.Context(), auctionID)
	if err != nil {
		h.renderMyAuctions(w, r, auctionID, api.UserMessage(err, "could not load auction"))
		return
	}
	if current.Status != api.StatusActive {
		h.renderMyAuctions(w, r, 0, ErrNotEditable.Error())
		return
	}

	newStatus := api.AuctionStatus(r.FormValue("status"))
	if !legalTransition(current.Status, newStatus) {
		h.renderMyAuctions(w, r, auctionID, ErrStatusTransition.Error())
		return
	}

	endTimeRaw := r.FormValue("endTime")
	if err := checkEndTime(endTimeRaw); err != nil {
		h.renderMyAuctions(w, r, auctionID, err.Error())
		return
	}
	endTime, _ := time.ParseInLocation(endTimeLayout, endTimeRaw, time.Local)

	err = h.api.UpdateAuction(r.Context(), sess.Token, auctionID, api.UpdateAuctionRequest{
		Title:       current.Title,
		Description: strings.TrimSpace(r.FormValue("description")),
		EndTime:     endTime.Format(time.RFC3339),
		Status:      newStatus,
	})
	if err != nil {
		h.renderMyAuctions(w, r, auctionID, api.UserMessage(err, "failed to save changes"))
		return
	}
	http.Redirect(w, r, "/my-auctions", http.StatusSeeOther)
}

// DeleteAuction removes a cancelled auction's data. Requires the
// confirmation field set by the form.
func (h *Handler) DeleteAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := parseAuctionID(chi.URLParam(r, "auctionID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	sess := SessionFrom(r.Context())

	if err := r.ParseForm(); err != nil || r.FormValue("confirmed") != "true" {
		h.renderMyAuctions(w, r, 0, ErrDeleteUnconfirmed.Error())
		return
	}

	current, err := h.api.Auction(r.Context(), auctionID)
	if err != nil {
		h.renderMyAuctions(w, r, 0, api.UserMessage(err, "could not load auction"))
		return
	}
	if current.Status != api.StatusCancelled {
		h.renderMyAuctions(w, r, 0, ErrDeleteNotCancelled.Error())
		return
	}

	if err := h.api.DeleteAuction(r.Context(), sess.Token, auctionID); err != nil {
		h.renderMyAuctions(w, r, 0, api.UserMessage(err, "failed to delete auction"))
		return
	}
	http.Redirect(w, r, "/my-auctions", http.StatusSeeOther)
}
