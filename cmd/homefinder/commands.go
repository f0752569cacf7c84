// cmd/homefinder/commands.go
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"homefinder/internal/domain/auth"
	"homefinder/internal/domain/listing"
	"homefinder/internal/domain/mortgage"
	"homefinder/internal/domain/session"
	"homefinder/pkg/errors"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func (c *cli) signIn(ctx context.Context, args []string) error {
	fs := newFlagSet("signin", c.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := c.app.Auth.SignIn(ctx, &auth.SignInRequest{Email: *email, Password: *password}); err != nil {
		return stderrors.New(errors.UserMessage(err, auth.MsgSignInFailed))
	}
	c.app.Boot.Reconcile(ctx)
	fmt.Fprintf(c.out, "Signed in as %s\n", c.greeting(*email))
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register", c.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "full name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := c.app.Auth.Register(ctx, &auth.RegisterRequest{Email: *email, Password: *password, FullName: *name})
	if stderrors.Is(err, auth.ErrRegisteredSignInFailed) {
		fmt.Fprintln(c.out, res.Message)
		return nil
	}
	if err != nil {
		return stderrors.New(errors.UserMessage(err, auth.MsgRegisterFailed))
	}
	c.app.Boot.Reconcile(ctx)
	fmt.Fprintf(c.out, "Welcome, %s\n", c.greeting(*email))
	return nil
}

// greeting names the signed-in user, or the email typed in when the account
// could not be fetched yet.
func (c *cli) greeting(email string) string {
	if u := c.app.Session.User(); u != nil {
		return u.DisplayName()
	}
	return strings.TrimSpace(email) + " (account details unavailable)"
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.app.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	status := c.app.Boot.Reconcile(ctx)
	snap := c.app.Session.Snapshot()

	switch status {
	case session.StatusAuthenticated:
		fmt.Fprintf(c.out, "Signed in as %s <%s>\n", snap.User.DisplayName(), snap.User.Email)
	case session.StatusTokenOnly:
		fmt.Fprintln(c.out, "Token stored, but the account could not be reached")
	case session.StatusInvalid:
		fmt.Fprintln(c.out, "Session expired, please sign in again")
	default:
		fmt.Fprintln(c.out, "Not signed in")
	}

	if snap.Token != "" {
		if info := session.InspectToken(snap.Token); !info.ExpiresAt.IsZero() {
			note := ""
			if info.Expired(time.Now()) {
				note = " (expired)"
			}
			fmt.Fprintf(c.out, "Token expires %s%s\n", info.ExpiresAt.Local().Format(time.RFC1123), note)
		}
	}
	fmt.Fprintf(c.out, "Server: %s\n", c.app.API.BaseURL())
	return nil
}

func (c *cli) listings(ctx context.Context, args []string) error {
	fs := newFlagSet("listings", c.out)
	typ := fs.String("type", "", "rent or sale")
	city := fs.String("city", "", "location contains")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	text := fs.String("q", "", "free text")
	skip := fs.Int("skip", 0, "listings to skip")
	limit := fs.Int("limit", 0, "page size (default 100)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := listing.ParseFilter(url.Values{
		"type":      {*typ},
		"city":      {*city},
		"min_price": {*minPrice},
		"max_price": {*maxPrice},
		"q":         {*text},
	})
	if err != nil {
		return err
	}
	page, err := listing.ParsePage(url.Values{
		"skip":  {strconv.Itoa(*skip)},
		"limit": {strconv.Itoa(*limit)},
	})
	if err != nil {
		return err
	}
	return c.printList(c.app.Listings.Load(ctx, page, f), "No listings found")
}

func (c *cli) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return stderrors.New("usage: homefinder show <id>")
	}
	v := c.app.Detail.Load(ctx, args[0])
	switch v.Phase {
	case listing.PhaseNotFound:
		fmt.Fprintln(c.out, v.Message)
		return nil
	case listing.PhaseError:
		return stderrors.New(v.Message)
	}

	l := v.Listing
	fmt.Fprintf(c.out, "#%d %s\n", l.ID, l.Title)
	fmt.Fprintf(c.out, "  %s, %s, %s\n", l.Location, l.Type, formatPrice(*l))
	fmt.Fprintf(c.out, "  %d rooms, %d sqm, at %.5f,%.5f\n", l.Rooms, l.Sqm, l.Lat, l.Lng)
	if feats := features(*l); feats != "" {
		fmt.Fprintf(c.out, "  %s\n", feats)
	}
	if l.Description != "" {
		fmt.Fprintf(c.out, "\n%s\n", l.Description)
	}
	fmt.Fprintf(c.out, "\nImage: %s\n", l.DisplayImage(c.app.Config.PlaceholderImage))
	if l.Type == listing.TypeSale && l.Price > 0 {
		if q, err := mortgage.Calculate(mortgage.NewRequest(float64(l.Price))); err == nil {
			fmt.Fprintf(c.out, "Mortgage from %.0f/month (%d years, 20%% down)\n", q.MonthlyPayment, q.TermYears)
		}
	}
	return nil
}

func (c *cli) mine(ctx context.Context) error {
	v, err := c.app.Owner.Load(ctx)
	if err != nil {
		return err
	}
	return c.printList(v, "You have no listings yet")
}

func (c *cli) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete", c.out)
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return stderrors.New("usage: homefinder delete <id> [--yes]")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return errors.NewFieldError("id", "must be a number")
	}

	var confirm listing.Confirmer = c
	if *yes {
		confirm = listing.ConfirmFunc(func(context.Context, string) bool { return true })
	}
	v, deleted, err := c.app.Owner.Delete(ctx, id, confirm)
	if err != nil {
		return stderrors.New(errors.UserMessage(err, listing.MsgDeleteListing))
	}
	if !deleted {
		fmt.Fprintln(c.out, "Cancelled")
		return nil
	}
	fmt.Fprintf(c.out, "Deleted listing %d\n", id)
	return c.printList(v, "You have no listings left")
}

// listingFlags binds the editor form to a flag set. Unset flags keep the
// form's current values.
type listingFlags struct {
	fs     *flag.FlagSet
	form   *listing.Form
	images stringList
	geo    bool
}

func bindListingFlags(fs *flag.FlagSet, form *listing.Form) *listingFlags {
	lf := &listingFlags{fs: fs, form: form}
	fs.StringVar(&form.Title, "title", form.Title, "title")
	fs.StringVar(&form.Description, "description", form.Description, "description")
	fs.StringVar(&form.Location, "location", form.Location, "address")
	fs.Func("type", "rent or sale", func(v string) error {
		form.Type = listing.Type(strings.ToLower(v))
		return nil
	})
	fs.StringVar(&form.Price, "price", form.Price, "price")
	fs.StringVar(&form.Rooms, "rooms", form.Rooms, "rooms")
	fs.StringVar(&form.Sqm, "sqm", form.Sqm, "size in sqm")
	fs.StringVar(&form.Lat, "lat", form.Lat, "latitude")
	fs.StringVar(&form.Lng, "lng", form.Lng, "longitude")
	fs.BoolVar(&form.AC, "ac", form.AC, "air conditioning")
	fs.BoolVar(&form.Mamad, "mamad", form.Mamad, "safe room")
	fs.BoolVar(&form.Parking, "parking", form.Parking, "parking")
	fs.BoolVar(&form.Balcony, "balcony", form.Balcony, "balcony")
	fs.BoolVar(&form.Furnished, "furnished", form.Furnished, "furnished")
	fs.Var(&lf.images, "image", "image file to upload (repeatable)")
	fs.BoolVar(&lf.geo, "geocode", true, "resolve --location to coordinates")
	return lf
}

func (lf *listingFlags) setExplicitly(name string) bool {
	found := false
	lf.fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// prepare geocodes the address unless coordinates were given, then opens the
// image files. The caller closes them.
func (c *cli) prepare(ctx context.Context, lf *listingFlags) ([]listing.UploadFile, func(), error) {
	if lf.geo && !lf.setExplicitly("lat") && !lf.setExplicitly("lng") {
		if _, err := c.app.Editor.ResolveLocation(ctx, lf.form); err != nil {
			fmt.Fprintf(c.out, "Could not resolve %q, keeping %s,%s\n", lf.form.Location, lf.form.Lat, lf.form.Lng)
		}
	}

	var files []listing.UploadFile
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, path := range lf.images {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		st, err := f.Stat()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, listing.UploadFile{Name: path, Size: st.Size(), Content: f})
	}
	return files, closeAll, nil
}

func (c *cli) create(ctx context.Context, args []string) error {
	form := listing.NewForm()
	lf := bindListingFlags(newFlagSet("create", c.out), &form)
	if err := lf.fs.Parse(args); err != nil {
		return err
	}

	files, closeFiles, err := c.prepare(ctx, lf)
	if err != nil {
		return err
	}
	defer closeFiles()

	created, err := c.app.Editor.Create(ctx, form, files)
	if err != nil {
		return stderrors.New(errors.UserMessage(err, listing.MsgCreateListing))
	}
	fmt.Fprintf(c.out, "Created listing %d: %s\n", created.ID, created.Title)
	return nil
}

func (c *cli) edit(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return stderrors.New("usage: homefinder edit <id> [flags]")
	}
	v := c.app.Detail.Load(ctx, args[0])
	switch v.Phase {
	case listing.PhaseNotFound:
		return errors.NewNotFoundError("listing", args[0])
	case listing.PhaseError:
		return stderrors.New(v.Message)
	}

	form := listing.FormFromListing(*v.Listing)
	lf := bindListingFlags(newFlagSet("edit", c.out), &form)
	if err := lf.fs.Parse(args[1:]); err != nil {
		return err
	}
	if !lf.setExplicitly("location") {
		lf.geo = false
	}

	files, closeFiles, err := c.prepare(ctx, lf)
	if err != nil {
		return err
	}
	defer closeFiles()

	updated, err := c.app.Editor.Update(ctx, v.Listing.ID, form, files)
	if err != nil {
		return stderrors.New(errors.UserMessage(err, listing.MsgUpdateListing))
	}
	fmt.Fprintf(c.out, "Updated listing %d: %s\n", updated.ID, updated.Title)
	return nil
}

func (c *cli) geocode(ctx context.Context, args []string) error {
	form := listing.NewForm()
	form.Location = strings.Join(args, " ")
	ok, err := c.app.Editor.ResolveLocation(ctx, &form)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewFieldError("location", fmt.Sprintf("must be at least %d characters", listing.MinGeocodeQuery))
	}
	fmt.Fprintf(c.out, "%s,%s\n", form.Lat, form.Lng)
	return nil
}

func (c *cli) profile(ctx context.Context, args []string) error {
	c.app.Boot.Reconcile(ctx)
	current := c.app.Session.User()

	req := auth.ProfileUpdate{}
	if current != nil {
		req.FullName, req.Email = current.FullName, current.Email
	}
	fs := newFlagSet("profile", c.out)
	fs.StringVar(&req.FullName, "name", req.FullName, "full name")
	fs.StringVar(&req.Email, "email", req.Email, "email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := c.app.Auth.UpdateProfile(ctx, &req)
	if err != nil {
		return stderrors.New(errors.UserMessage(err, auth.MsgProfileUpdateFailed))
	}
	fmt.Fprintln(c.out, res.Message)
	return nil
}

func (c *cli) mortgageQuote(args []string) error {
	fs := newFlagSet("mortgage", c.out)
	price := fs.Float64("price", 0, "property price")
	down := fs.Float64("down", -1, "down payment (default 20% of price)")
	term := fs.Int("term", mortgage.DefaultTermYears, "loan term in years: 15, 20, 25 or 30")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := mortgage.NewRequest(*price)
	if *down >= 0 {
		req.DownPayment = *down
	}
	req.TermYears = *term

	q, err := mortgage.Calculate(req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Loan:     %.0f (%.1f%% down)\n", q.LoanAmount, q.DownPercent)
	fmt.Fprintf(c.out, "Monthly:  %.0f over %d years at %.2f%%\n", q.MonthlyPayment, q.TermYears, mortgage.AnnualRate)
	fmt.Fprintf(c.out, "Total:    %.0f (interest %.0f)\n", q.TotalPayment, q.TotalInterest)
	return nil
}

func (c *cli) printList(v listing.ListView, empty string) error {
	if v.Phase == listing.PhaseError {
		return stderrors.New(v.Message)
	}
	if v.Empty() {
		fmt.Fprintln(c.out, empty)
		return nil
	}
	for _, l := range v.Listings {
		fmt.Fprintf(c.out, "%5d  %-4s  %12s  %-30s  %s\n", l.ID, l.Type, formatPrice(l), truncate(l.Title, 30), l.Location)
	}
	return nil
}

func formatPrice(l listing.Listing) string {
	if l.Type == listing.TypeRent {
		return l.Price.String() + "/mo"
	}
	return l.Price.String()
}

func features(l listing.Listing) string {
	var out []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{l.AC, "AC"},
		{l.Mamad, "Mamad"},
		{l.Parking, "Parking"},
		{l.Balcony, "Balcony"},
		{l.Furnished, "Furnished"},
	} {
		if f.on {
			out = append(out, f.name)
		}
	}
	return strings.Join(out, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
