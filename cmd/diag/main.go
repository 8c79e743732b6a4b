package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/star/quadplan/internal/site"
	"github.com/star/quadplan/internal/transform"
	"github.com/star/quadplan/internal/visibility"
	"github.com/star/quadplan/internal/window"
)

// diag prints the Sun's altitude over one night at an observatory using every
// available solar position model.
func main() {
	if len(os.Args) != 3 {
		fmt.Println("usage: diag <observatory> <night YYYY-MM-DD>")
		os.Exit(2)
	}
	if err := run(context.Background(), os.Stdout, os.Args[1], os.Args[2]); err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, observatory, night string) error {
	registry, err := site.NewRegistry()
	if err != nil {
		return fmt.Errorf("loading sites: %w", err)
	}
	s, err := registry.Lookup(observatory)
	if err != nil {
		return err
	}
	win, err := window.Resolve(night, night)
	if err != nil {
		return err
	}

	almanac, err := visibility.NewProvider(visibility.ProviderAlmanac)
	if err != nil {
		return err
	}
	sunrise, err := visibility.NewProvider(visibility.ProviderSunrise)
	if err != nil {
		return err
	}
	obs := s.Observer()

	fmt.Fprintf(w, "%s (%.4f, %.4f, %.0f m)\n", s.Name, s.Latitude, s.Longitude, s.Height)
	fmt.Fprintf(w, "%-20s %10s %10s %8s\n", "UTC", "almanac", "sunrise", "dark")

	dark := 0
	for i := 0; ; i++ {
		jd := win.Start + float64(i)/24
		if jd > win.End {
			break
		}
		a, err := almanac.Altitude(ctx, jd, obs)
		if err != nil {
			return fmt.Errorf("almanac: %w", err)
		}
		b, err := sunrise.Altitude(ctx, jd, obs)
		if err != nil {
			return fmt.Errorf("sunrise: %w", err)
		}
		isDark := a < visibility.DarknessThreshold
		if isDark {
			dark++
		}
		fmt.Fprintf(w, "%-20s %10.2f %10.2f %8v\n",
			transform.TimeFromJulianDate(jd).Format("2006-01-02 15:04"), a, b, isDark)
	}
	fmt.Fprintf(w, "%d dark hour samples\n", dark)
	return nil
}
