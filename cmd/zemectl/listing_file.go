package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zeme/internal/models"
	"zeme/internal/wizard"

	"gopkg.in/yaml.v3"
)

// listingFile is the YAML document accepted by "listings create" and "listings edit".
type listingFile struct {
	ListingType     string     `yaml:"listingType"`
	Address         string     `yaml:"address"`
	Unit            string     `yaml:"unit"`
	Floor           *float64   `yaml:"floor"`
	Bedrooms        *float64   `yaml:"bedrooms"`
	Bathrooms       *float64   `yaml:"bathrooms"`
	SquareFeet      *float64   `yaml:"squareFeet"`
	DateAvailable   *time.Time `yaml:"dateAvailable"`
	GrossRent       *float64   `yaml:"grossRent"`
	SecurityDeposit *float64   `yaml:"securityDeposit"`
	BrokerFee       *float64   `yaml:"brokerFee"`
	AnotherFee      *struct {
		Name   string   `yaml:"name"`
		Amount *float64 `yaml:"amount"`
		Type   string   `yaml:"type"`
	} `yaml:"anotherFee"`
	Amenities         []string `yaml:"amenities"`
	RequiredDocuments []string `yaml:"requiredDocuments"`
	OptionalDocuments []string `yaml:"optionalDocuments"`
	Images            []string `yaml:"images"`
	ImageFiles        []string `yaml:"imageFiles"`
}

func loadListingFile(path string) (*listingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var lf listingFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Image files are relative to the listing file.
	dir := filepath.Dir(path)
	for i, f := range lf.ImageFiles {
		if !filepath.IsAbs(f) {
			lf.ImageFiles[i] = filepath.Join(dir, f)
		}
	}
	return &lf, nil
}

// applyTo copies the set fields of the file onto the wizard form.
func (lf *listingFile) applyTo(l *models.Listing) {
	if lf.ListingType != "" {
		l.ListingType = lf.ListingType
	}

	b := &l.BasicInformation
	setString(&b.Address, lf.Address)
	setString(&b.Unit, lf.Unit)
	setFloat(&b.Floor, lf.Floor)
	setFloat(&b.Bedrooms, lf.Bedrooms)
	setFloat(&b.Bathrooms, lf.Bathrooms)
	setFloat(&b.SquareFeet, lf.SquareFeet)
	if lf.DateAvailable != nil {
		b.DateAvailable = lf.DateAvailable
	}

	e := &l.EconomicInformation
	setFloat(&e.GrossRent, lf.GrossRent)
	setFloat(&e.SecurityDepositAmount, lf.SecurityDeposit)
	setFloat(&e.BrokerFee, lf.BrokerFee)
	if lf.AnotherFee != nil {
		e.HasAnotherFee = true
		e.AnotherFee = &models.AnotherFee{
			FeeName:   lf.AnotherFee.Name,
			FeeAmount: lf.AnotherFee.Amount,
			FeeType:   lf.AnotherFee.Type,
		}
	}

	if lf.Amenities != nil {
		l.Amenities = lf.Amenities
	}
	if lf.RequiredDocuments != nil {
		l.DocumentRequirements.RequiredDocuments = lf.RequiredDocuments
	}
	if lf.OptionalDocuments != nil {
		l.DocumentRequirements.OptionalDocuments = lf.OptionalDocuments
	}
	l.Images = append(l.Images, lf.Images...)
}

// imageFiles reads the local images listed in the file.
func (lf *listingFile) imageFiles() ([]wizard.File, error) {
	files := make([]wizard.File, 0, len(lf.ImageFiles))
	for _, p := range lf.ImageFiles {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		files = append(files, wizard.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setFloat(dst **float64, v *float64) {
	if v != nil {
		*dst = v
	}
}
