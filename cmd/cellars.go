package cmd

import (
	"context"
	"fmt"

	"droscher.com/WineCellar/pkg/server"
)

type CreateCellarCmd struct {
	Name string `arg:"" help:"Cellar name"`

	Session `embed:""`
}

func (c *CreateCellarCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := c.account(context.Background(), a)
	if err != nil {
		return err
	}

	created, err := a.service.CreateCellar(context.Background(), account.ID, c.Name)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Created cellar %d\n", created.ID)

	return nil
}

type ListCellarsCmd struct {
	Session `embed:""`
}

func (l *ListCellarsCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := l.account(context.Background(), a)
	if err != nil {
		return err
	}

	cellars, err := a.service.ListCellars(context.Background(), account.ID)
	if err != nil {
		return err
	}

	return printCellars(ctx.Stdout, cellars)
}

type ExploreCellarsCmd struct{}

func (e *ExploreCellarsCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	cellars, err := a.service.ExploreCellars(context.Background())
	if err != nil {
		return err
	}

	return printCellars(ctx.Stdout, cellars)
}

type ShowCellarCmd struct {
	CellarID uint `arg:"" help:"Cellar id"`
}

func (s *ShowCellarCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	detail, err := a.service.ShowCellar(context.Background(), s.CellarID)
	if err != nil {
		return err
	}

	return printCellarDetail(ctx.Stdout, server.CellarFromModel(detail.Cellar, detail.Shelves))
}

type AddShelfCmd struct {
	CellarID uint   `arg:"" help:"Cellar id"`
	Name     string `arg:"" help:"Shelf name"`
	Capacity *int64 `help:"Number of bottles the shelf holds, unlimited when omitted"`

	Session `embed:""`
}

func (s *AddShelfCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := s.account(context.Background(), a)
	if err != nil {
		return err
	}

	shelf, err := a.service.AddShelf(context.Background(), account.ID, s.CellarID, s.Name, s.Capacity)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Added shelf %d (capacity %s)\n", shelf.ID, capacity(shelf.Capacity))

	return nil
}

type RemoveShelfCmd struct {
	CellarID uint `arg:"" help:"Cellar id"`
	ShelfID  uint `arg:"" help:"Shelf id"`

	Session `embed:""`
}

func (s *RemoveShelfCmd) Run(ctx *Context) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	account, err := s.account(context.Background(), a)
	if err != nil {
		return err
	}

	if err := a.service.RemoveShelf(context.Background(), account.ID, s.CellarID, s.ShelfID); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Removed shelf %d\n", s.ShelfID)

	return nil
}
