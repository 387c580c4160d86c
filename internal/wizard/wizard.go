// Package wizard drives the five-step listing form: basic information,
// economic information, amenities, documents and images, followed by a preview.
// Each forward move is gated by the checks of the step being left; the last
// step re-validates the whole listing against the publish rules.
package wizard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"zeme/internal/listing"
	"zeme/internal/models"

	"golang.org/x/sync/errgroup"
)

// Step is a wizard state.
type Step int

// Wizard states in order.
const (
	StepBasic Step = iota + 1
	StepEconomic
	StepAmenities
	StepDocuments
	StepImages
	Preview
)

var stepNames = map[Step]string{
	StepBasic:     "Basic Information",
	StepEconomic:  "Economic Information",
	StepAmenities: "Select Amenities",
	StepDocuments: "Documents",
	StepImages:    "Upload Images",
	Preview:       "Preview",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// maxConcurrentUploads bounds a single AddImages batch.
const maxConcurrentUploads = 4

var (
	// ErrNotInPreview is returned by Publish and Cancel outside the preview.
	ErrNotInPreview = errors.New("wizard is not in preview")
	// ErrNoUploader is returned by AddImages when the wizard has no uploader.
	ErrNoUploader = errors.New("no uploader configured")
)

//go:generate mockgen -destination=mocks/mock_submitter.go -package=mocks zeme/internal/wizard Submitter

// Submitter persists the form.
type Submitter interface {
	CreateListing(ctx context.Context, in models.ListingInput) (*models.Listing, error)
	UpdateListing(ctx context.Context, id string, in models.ListingInput) (*models.Listing, error)
}

//go:generate mockgen -destination=mocks/mock_uploader.go -package=mocks zeme/internal/wizard Uploader

// Uploader stores one file and returns its path.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (*models.UploadResponse, error)
}

// File is an image waiting to be uploaded.
type File struct {
	Name string
	Data []byte
}

// StepResult reports the outcome of Next.
type StepResult struct {
	From   Step
	To     Step
	Errors map[string]string
}

// OK reports whether the wizard advanced.
func (r StepResult) OK() bool {
	return len(r.Errors) == 0
}

// Wizard holds the in-progress listing. It is not safe for concurrent use.
type Wizard struct {
	step      Step
	form      models.Listing
	editID    string
	errors    map[string]string
	submitter Submitter
	uploader  Uploader
}

// New starts an empty form at step 1.
func New(s Submitter, u Uploader) *Wizard {
	return &Wizard{
		step: StepBasic,
		form: models.Listing{
			ListingType: models.DefaultListingType,
			Amenities:   []string{},
			DocumentRequirements: models.DocumentRequirements{
				RequiredDocuments: []string{},
				OptionalDocuments: []string{},
			},
			Images: []string{},
		},
		errors:    map[string]string{},
		submitter: s,
		uploader:  u,
	}
}

// NewForEdit preloads the form from an existing listing. Submissions update it.
func NewForEdit(l *models.Listing, s Submitter, u Uploader) *Wizard {
	w := New(s, u)
	w.editID = l.ID.Hex()
	input := toInput(l)
	input.ApplyTo(&w.form)
	w.form.ID = l.ID
	w.form.Owner = l.Owner
	w.form.Status = l.Status
	return w
}

// Step returns the current state.
func (w *Wizard) Step() Step { return w.step }

// Editing reports whether the wizard updates an existing listing.
func (w *Wizard) Editing() bool { return w.editID != "" }

// Form exposes the listing being edited. Callers fill fields through it.
func (w *Wizard) Form() *models.Listing { return &w.form }

// Errors returns the field errors of the last Next call.
func (w *Wizard) Errors() map[string]string {
	out := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

// Next validates the current step and advances when it passes. From the image
// step the whole form must satisfy the publish rules to reach the preview.
func (w *Wizard) Next() StepResult {
	res := StepResult{From: w.step, To: w.step}
	if w.step == Preview {
		return res
	}

	errs := w.validateStep(w.step)
	if len(errs) == 0 && w.step == StepImages {
		errs = validateAll(&w.form)
	}

	w.errors = errs
	if len(errs) > 0 {
		res.Errors = w.Errors()
		return res
	}

	w.step++
	res.To = w.step
	return res
}

// Back moves one step back and clears errors. It is a no-op at step 1.
func (w *Wizard) Back() {
	w.errors = map[string]string{}
	if w.step > StepBasic {
		w.step--
	}
}

// Cancel leaves the preview and returns to the image step.
func (w *Wizard) Cancel() error {
	if w.step != Preview {
		return ErrNotInPreview
	}
	w.step = StepImages
	return nil
}

// SaveDraft submits the form as a draft from any step without full validation.
func (w *Wizard) SaveDraft(ctx context.Context) (*models.Listing, error) {
	return w.submit(ctx, models.StatusDraft)
}

// Publish submits the form as published. Only allowed from the preview.
func (w *Wizard) Publish(ctx context.Context) (*models.Listing, error) {
	if w.step != Preview {
		return nil, ErrNotInPreview
	}
	return w.submit(ctx, models.StatusPublished)
}

func (w *Wizard) submit(ctx context.Context, status models.ListingStatus) (*models.Listing, error) {
	in := toInput(&w.form)
	in.Status = string(status)

	var (
		saved *models.Listing
		err   error
	)
	if w.Editing() {
		saved, err = w.submitter.UpdateListing(ctx, w.editID, in)
	} else {
		saved, err = w.submitter.CreateListing(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	// Later submissions of the same wizard update the stored listing.
	w.editID = saved.ID.Hex()
	w.form.ID = saved.ID
	w.form.Status = saved.Status
	return saved, nil
}

// AddImages uploads files concurrently and appends their paths in input order.
// When any upload fails nothing is appended.
func (w *Wizard) AddImages(ctx context.Context, files []File) error {
	if w.uploader == nil {
		return ErrNoUploader
	}
	if len(files) == 0 {
		return nil
	}

	paths := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)
	for i, f := range files {
		g.Go(func() error {
			resp, err := w.uploader.Upload(gctx, f.Name, bytes.NewReader(f.Data))
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			paths[i] = resp.FilePath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w.form.Images = append(w.form.Images, paths...)
	return nil
}

// RemoveImage drops the image at index i.
func (w *Wizard) RemoveImage(i int) error {
	if i < 0 || i >= len(w.form.Images) {
		return fmt.Errorf("image index %d out of range", i)
	}
	w.form.Images = append(w.form.Images[:i], w.form.Images[i+1:]...)
	return nil
}

func (w *Wizard) validateStep(s Step) map[string]string {
	errs := map[string]string{}
	b, e := w.form.BasicInformation, w.form.EconomicInformation

	switch s {
	case StepBasic:
		for _, f := range []listing.Field{
			listing.FieldAddress,
			listing.FieldUnit,
			listing.FieldBedrooms,
			listing.FieldBathrooms,
			listing.FieldDateAvailable,
		} {
			if !listing.IsSet(&w.form, f) {
				errs[string(f)] = fmt.Sprintf("%s is required", f.Label())
			}
		}
		requireNonNegative(errs, listing.FieldBedrooms, b.Bedrooms)
		requireNonNegative(errs, listing.FieldBathrooms, b.Bathrooms)
	case StepEconomic:
		requirePositive(errs, listing.FieldGrossRent, e.GrossRent)
		requirePositive(errs, listing.FieldSecurityDeposit, e.SecurityDepositAmount)
		requirePositive(errs, listing.FieldBrokerFee, e.BrokerFee)
	case StepImages:
		if n := len(w.form.Images); n < listing.MinPublishedImages {
			errs[string(listing.FieldImages)] = fmt.Sprintf("at least %d images are required", listing.MinPublishedImages)
		} else if n > listing.MaxPublishedImages {
			errs[string(listing.FieldImages)] = fmt.Sprintf("at most %d images are allowed", listing.MaxPublishedImages)
		}
	}
	return errs
}

// validateAll applies the server's publish rules to the whole form.
func validateAll(l *models.Listing) map[string]string {
	errs := map[string]string{}
	if ve := listing.Validate(l, models.StatusPublished); ve != nil {
		for _, v := range ve.Violations {
			errs[v.Field] = v.Message
		}
	}
	return errs
}

func requirePositive(errs map[string]string, f listing.Field, v *float64) {
	if v == nil || *v <= 0 {
		errs[string(f)] = fmt.Sprintf("a valid %s amount is required", f.Label())
	}
}

func requireNonNegative(errs map[string]string, f listing.Field, v *float64) {
	if v != nil && *v < 0 {
		errs[string(f)] = fmt.Sprintf("%s must not be negative", f.Label())
	}
}

func toInput(l *models.Listing) models.ListingInput {
	return models.ListingInput{
		Status:               string(l.Status),
		ListingType:          strings.TrimSpace(l.ListingType),
		BasicInformation:     l.BasicInformation,
		EconomicInformation:  l.EconomicInformation,
		Amenities:            l.Amenities,
		DocumentRequirements: l.DocumentRequirements,
		Images:               l.Images,
	}
}
