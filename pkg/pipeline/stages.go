package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/fenestration"
	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/observability"
)

// Mass builds the configured building and finalizes it into an envelope
// facing opts.Orientation.
func Mass(ctx context.Context, opts Options, sink diag.Sink) (*model.Envelope, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, diag.Fail(sink, err)
	}
	c, _ := opts.Building.Config()
	variant := string(c.Variant())

	var env *model.Envelope
	err := stage(ctx, observability.StageMassing, variant, func() error {
		b := model.New(opts.Name)
		if err := c.Build(b, sink); err != nil {
			return err
		}
		e, err := model.Finalize(b)
		if err != nil {
			return diag.Fail(sink, errors.Wrap(errors.ErrCodeInternal, err, "finalize %s", opts.Name))
		}
		env = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	env.Orientation = *opts.Orientation
	return env, nil
}

// Place adds the door, windows and skylights the options ask for, in that
// order. Stages whose options are nil are skipped.
func Place(ctx context.Context, env *model.Envelope, opts Options, sink diag.Sink) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return diag.Fail(sink, err)
	}
	variant := string(opts.Variant())

	if opts.Door != nil {
		if err := stage(ctx, observability.StageDoor, variant, func() error {
			return fenestration.AddDoor(env, *opts.Door, sink)
		}); err != nil {
			return err
		}
	}
	if opts.Windows != nil {
		if err := stage(ctx, observability.StageWindows, variant, func() error {
			return fenestration.AddWindows(env, *opts.Windows, sink)
		}); err != nil {
			return err
		}
	}
	if opts.Skylights != nil {
		if err := stage(ctx, observability.StageSkylights, variant, func() error {
			return fenestration.AddSkylights(env, *opts.Skylights, sink)
		}); err != nil {
			return err
		}
	}
	return nil
}

// stage runs fn between the pipeline hooks, unless ctx is already done.
func stage(ctx context.Context, name, variant string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name, variant)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, name, variant, time.Since(start), err)
	return err
}
