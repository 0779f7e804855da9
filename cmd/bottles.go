package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"droscher.com/WineCellar/pkg/cellar"
	"droscher.com/WineCellar/pkg/model"
)

// WineFlags identify a wine by its characteristics. An omitted region means the wine has none.
type WineFlags struct {
	Producer string  `help:"Producer"                         required:""`
	Name     string  `help:"Wine name"                        required:""`
	Type     string  `help:"Red, White, Rosé or Sparkling"    required:""`
	Year     int     `help:"Vintage"                          required:""`
	Region   *string `help:"Region, omit for wines without one"`
}

func (w WineFlags) characteristics() (model.Characteristics, error) {
	wineType, err := model.ParseWineType(w.Type)
	if err != nil {
		return model.Characteristics{}, err
	}

	return model.Characteristics{Producer: w.Producer, Name: w.Name, Type: wineType, Year: w.Year, Region: w.Region}, nil
}

// SelectorFlags pick bottles either by descriptor id or by characteristics.
type SelectorFlags struct {
	DescriptorID *uint   `help:"Descriptor id of a bottle"`
	Producer     string  `help:"Producer"`
	Name         string  `help:"Wine name"`
	Type         string  `help:"Red, White, Rosé or Sparkling"`
	Year         int     `help:"Vintage"`
	Region       *string `help:"Region, omit for wines without one"`
}

func (s SelectorFlags) selector() (model.Selector, error) {
	byCharacteristics := s.Producer != "" || s.Name != "" || s.Type != "" || s.Year != 0 || s.Region != nil

	if s.DescriptorID != nil {
		if byCharacteristics {
			return model.Selector{}, fmt.Errorf("%w: use either --descriptor-id or the wine flags", model.ErrValidation)
		}

		return model.Selector{DescriptorID: s.DescriptorID}, nil
	}

	if !byCharacteristics {
		return model.Selector{}, fmt.Errorf("%w: --descriptor-id or --producer, --name, --type and --year are required", model.ErrValidation)
	}

	characteristics, err := WineFlags{Producer: s.Producer, Name: s.Name, Type: s.Type, Year: s.Year, Region: s.Region}.characteristics()
	if err != nil {
		return model.Selector{}, err
	}

	return model.Selector{Characteristics: &characteristics}, nil
}

type AddBottlesCmd struct {
	CellarID uint     `arg:"" help:"Cellar id"`
	ShelfID  uint     `help:"Shelf id"            required:""`
	Quantity int      `default:"1"                help:"Number of bottles"`
	Price    *float64 `help:"Price per bottle"`
	Label    string   `help:"Label image (png, jpg, jpeg)" type:"existingfile"`

	WineFlags `embed:""`
	Session   `embed:""`
}

func (b *AddBottlesCmd) Run(ctx *Context) error {
	wine, err := b.characteristics()
	if err != nil {
		return err
	}

	request := cellar.AddBottlesRequest{ShelfID: b.ShelfID, Wine: wine, Price: b.Price, Quantity: b.Quantity}

	if b.Label != "" {
		data, err := os.ReadFile(b.Label)
		if err != nil {
			return fmt.Errorf("reading label: %w", err)
		}

		request.Label = &cellar.Label{FileName: filepath.Base(b.Label), Data: data}
	}

	a, err := newApp(ctx, request.Label != nil)
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := b.account(context.Background(), a)
	if err != nil {
		return err
	}

	entries, err := a.service.AddBottles(context.Background(), account.ID, b.CellarID, request)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Added %d bottles to shelf %d\n", len(entries), b.ShelfID)

	return nil
}

type RemoveBottlesCmd struct {
	CellarID uint `arg:"" help:"Cellar id"`
	Quantity int  `default:"1" help:"Number of bottles"`

	SelectorFlags `embed:""`
	Session       `embed:""`
}

func (r *RemoveBottlesCmd) Run(ctx *Context) error {
	selector, err := r.selector()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := r.account(context.Background(), a)
	if err != nil {
		return err
	}

	removed, err := a.service.RemoveBottles(context.Background(), account.ID, r.CellarID, selector, r.Quantity)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Removed %d of %d bottles\n", removed, r.Quantity)

	return nil
}

type ArchiveBottlesCmd struct {
	CellarID uint     `arg:"" help:"Cellar id"`
	Quantity int      `default:"1" help:"Number of bottles"`
	Rating   *float64 `help:"Rating from 0 to 5"`
	Comment  *string  `help:"Tasting note"`

	SelectorFlags `embed:""`
	Session       `embed:""`
}

func (r *ArchiveBottlesCmd) Run(ctx *Context) error {
	selector, err := r.selector()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := r.account(context.Background(), a)
	if err != nil {
		return err
	}

	archived, err := a.service.ArchiveBottles(context.Background(), account.ID, r.CellarID, cellar.ArchiveRequest{
		Selector: selector,
		Quantity: r.Quantity,
		Rating:   r.Rating,
		Comment:  r.Comment,
	})

	fmt.Fprintf(ctx.Stdout, "Archived %d of %d bottles\n", archived, r.Quantity)

	return err
}

type ListInventoryCmd struct {
	CellarID uint   `arg:"" help:"Cellar id"`
	Sort     string `enum:"name,producer,type,year,region,quantity,shelf" default:"name" help:"Sort field"`
	Order    string `enum:"asc,desc"                                        default:"asc"  help:"Sort order"`
}

func (l *ListInventoryCmd) Run(ctx *Context) error {
	order, err := cellar.ParseSort(l.Sort, l.Order)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	groups, err := a.service.ListInventory(context.Background(), l.CellarID, order)
	if err != nil {
		return err
	}

	return printInventory(ctx.Stdout, groups)
}

type ShowLabelCmd struct {
	Reference string `arg:"" help:"Label reference as listed by list-inventory"`
	Output    string `help:"File to write the image to, defaults to stdout" short:"o" type:"path"`
}

func (l *ShowLabelCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	reader, err := a.service.OpenLabel(context.Background(), l.Reference)
	if err != nil {
		return err
	}
	defer reader.Close()

	if l.Output == "" {
		_, err = io.Copy(ctx.Stdout, reader)

		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: reading label: %w", model.ErrStorage, err)
	}

	if err := os.WriteFile(l.Output, data, 0o644); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}

	fmt.Fprintf(ctx.Stdout, "Saved label to %s\n", l.Output)

	return nil
}
