// Command zemectl is a command-line client for the Zeme API. Listings are
// created and edited through the same five-step wizard the web form uses.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"zeme/internal/listing"
	"zeme/internal/models"
	"zeme/internal/wizard"
	"zeme/pkg/client"

	"github.com/urfave/cli/v2"
)

const defaultAPI = "http://localhost:8080/api/v1"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "zemectl",
		Usage: "manage Zeme rental listings from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   defaultAPI,
				Usage:   "API base URL",
				EnvVars: []string{"ZEME_API"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token returned by login",
				EnvVars: []string{"ZEME_TOKEN"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "authenticate and print a token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ZEME_PASSWORD"}},
				},
				Action: login,
			},
			{
				Name:  "search",
				Usage: "search published listings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keyword", Usage: "substring of the address"},
					&cli.StringSliceFlag{Name: "bedrooms", Usage: "bedroom labels, e.g. Studio, 2, 5+"},
					&cli.StringSliceFlag{Name: "bathrooms", Usage: "bathroom labels, e.g. 1, 1.5"},
					&cli.Float64Flag{Name: "min-rent"},
					&cli.Float64Flag{Name: "max-rent"},
					&cli.StringSliceFlag{Name: "amenity"},
					&cli.StringFlag{Name: "sort", Usage: "newest, oldest, lowToHigh or highToLow"},
				},
				Action: search,
			},
			{
				Name:  "listings",
				Usage: "manage your listings",
				Subcommands: []*cli.Command{
					{
						Name:   "mine",
						Usage:  "list your listings",
						Flags:  []cli.Flag{&cli.StringFlag{Name: "status", Usage: "draft or published"}},
						Action: listMine,
					},
					{
						Name:      "get",
						ArgsUsage: "ID",
						Action:    getListing,
					},
					{
						Name:  "create",
						Usage: "create a listing from a YAML file",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
							&cli.BoolFlag{Name: "publish", Usage: "walk every step and publish instead of saving a draft"},
						},
						Action: createListing,
					},
					{
						Name:      "edit",
						Usage:     "apply a YAML file to an existing listing",
						ArgsUsage: "ID",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
							&cli.BoolFlag{Name: "publish"},
						},
						Action: editListing,
					},
					{
						Name:      "publish",
						ArgsUsage: "ID",
						Action:    setStatus(models.StatusPublished),
					},
					{
						Name:      "unpublish",
						ArgsUsage: "ID",
						Action:    setStatus(models.StatusDraft),
					},
					{
						Name:      "delete",
						ArgsUsage: "ID",
						Action:    deleteListing,
					},
				},
			},
			{
				Name:  "favorites",
				Usage: "manage saved listings",
				Subcommands: []*cli.Command{
					{Name: "toggle", ArgsUsage: "ID", Action: toggleFavorite},
					{Name: "list", Action: listFavorites},
				},
			},
			{
				Name:      "locations",
				Usage:     "geocode an address within New York City",
				ArgsUsage: "QUERY",
				Action:    searchLocations,
			},
		},
	}
}

func apiClient(c *cli.Context) *client.Client {
	opts := []client.Option{}
	if token := c.String("token"); token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(c.String("api"), opts...)
}

func requireArg(c *cli.Context, name string) (string, error) {
	v := c.Args().First()
	if v == "" {
		return "", cli.Exit(fmt.Sprintf("missing %s argument", name), 2)
	}
	return v, nil
}

func login(c *cli.Context) error {
	resp, err := apiClient(c).Login(c.Context, c.String("email"), c.String("password"))
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	fmt.Fprintf(c.App.Writer, "export ZEME_TOKEN=%s\n", resp.Token)
	return nil
}

func search(c *cli.Context) error {
	results, err := apiClient(c).Search(c.Context, listing.Filter{
		Keyword:   c.String("keyword"),
		Bedrooms:  c.StringSlice("bedrooms"),
		Bathrooms: c.StringSlice("bathrooms"),
		MinRent:   c.Float64("min-rent"),
		MaxRent:   c.Float64("max-rent"),
		Amenities: c.StringSlice("amenity"),
		Sort:      c.String("sort"),
	})
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	return printJSON(c.App.Writer, results)
}

func listMine(c *cli.Context) error {
	results, err := apiClient(c).ListMine(c.Context, c.String("status"))
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	return printJSON(c.App.Writer, results)
}

func getListing(c *cli.Context) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		return err
	}
	l, err := apiClient(c).GetListing(c.Context, id)
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	return printJSON(c.App.Writer, l)
}

func createListing(c *cli.Context) error {
	api := apiClient(c)
	return runWizard(c, wizard.New(api, api))
}

func editListing(c *cli.Context) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		return err
	}
	api := apiClient(c)
	existing, err := api.GetListing(c.Context, id)
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	return runWizard(c, wizard.NewForEdit(existing, api, api))
}

// runWizard fills the wizard from the listing file, uploads local images and
// either saves a draft or walks every step to the preview and publishes.
func runWizard(c *cli.Context, w *wizard.Wizard) error {
	lf, err := loadListingFile(c.String("file"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	lf.applyTo(w.Form())

	files, err := lf.imageFiles()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if len(files) > 0 {
		if err := w.AddImages(c.Context, files); err != nil {
			return report(c.App.ErrWriter, err)
		}
		fmt.Fprintf(c.App.ErrWriter, "uploaded %d images\n", len(files))
	}

	if !c.Bool("publish") {
		saved, err := w.SaveDraft(c.Context)
		if err != nil {
			return report(c.App.ErrWriter, err)
		}
		return printJSON(c.App.Writer, saved)
	}

	for w.Step() != wizard.Preview {
		res := w.Next()
		if !res.OK() {
			fmt.Fprintf(c.App.ErrWriter, "%s is incomplete:\n", res.From)
			printFieldErrors(c.App.ErrWriter, res.Errors)
			return cli.Exit("listing not published", 1)
		}
		fmt.Fprintf(c.App.ErrWriter, "%s ok\n", res.From)
	}

	saved, err := w.Publish(c.Context)
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	return printJSON(c.App.Writer, saved)
}

func setStatus(status models.ListingStatus) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := requireArg(c, "ID")
		if err != nil {
			return err
		}
		l, err := apiClient(c).UpdateStatus(c.Context, id, status)
		if err != nil {
			return report(c.App.ErrWriter, err)
		}
		return printJSON(c.App.Writer, l)
	}
}

func deleteListing(c *cli.Context) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		return err
	}
	if err := apiClient(c).DeleteListing(c.Context, id); err != nil {
		return report(c.App.ErrWriter, err)
	}
	fmt.Fprintf(c.App.Writer, "deleted %s\n", id)
	return nil
}

func toggleFavorite(c *cli.Context) error {
	id, err := requireArg(c, "ID")
	if err != nil {
		return err
	}
	resp, err := apiClient(c).ToggleFavorite(c.Context, id)
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	return printJSON(c.App.Writer, resp)
}

func listFavorites(c *cli.Context) error {
	results, err := apiClient(c).FavoriteListings(c.Context)
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	return printJSON(c.App.Writer, results)
}

func searchLocations(c *cli.Context) error {
	results, err := apiClient(c).SearchLocations(c.Context, c.Args().First())
	if err != nil {
		return report(c.App.ErrWriter, err)
	}
	return printJSON(c.App.Writer, results)
}

// report prints API validation details and returns an exit error.
func report(w io.Writer, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Violations) > 0 {
		fields := make(map[string]string, len(apiErr.Violations))
		for _, v := range apiErr.Violations {
			fields[v.Field] = v.Message
		}
		printFieldErrors(w, fields)
	}
	return cli.Exit(err.Error(), 1)
}

func printFieldErrors(w io.Writer, errs map[string]string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, errs[k])
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
