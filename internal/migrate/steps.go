package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/viewmig/internal/manifest"
	"github.com/aretw0/viewmig/internal/textio"
	"github.com/aretw0/viewmig/internal/treelist"
	"github.com/aretw0/viewmig/internal/view"
	"github.com/aretw0/viewmig/pkg/domain"
)

// ConvertViews rewrites attrs and states modifiers in every view file.
func (r *Runner) ConvertViews(ctx context.Context) (domain.StepReport, error) {
	t := r.track(StepViews)
	files, err := r.finder().Find(r.cfg.ViewsGlob)
	if err != nil {
		return t.step, err
	}
	if len(files) == 0 {
		r.logger.Info("no view files found", "glob", r.cfg.ViewsGlob)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return t.step, err
		}
		rel := r.rel(file)
		t.start(ctx, rel)
		outcome, err := r.convertView(ctx, t, file, rel)
		if err != nil && ctx.Err() != nil {
			return t.step, ctx.Err()
		}
		t.done(ctx, rel, outcome, err)
	}
	return t.result()
}

func (r *Runner) convertView(ctx context.Context, t *tracker, file, rel string) (string, error) {
	text, err := textio.ReadFile(file)
	if err != nil {
		if errors.Is(err, textio.ErrBinary) {
			return domain.OutcomeSkipped, nil
		}
		return domain.OutcomeFailed, err
	}

	out, res, err := view.Convert(text.Content)
	if err != nil {
		return domain.OutcomeFailed, err
	}
	if !res.Changed() {
		return domain.OutcomeSkipped, nil
	}

	ok, err := t.confirm(ctx, rel, res.Preview())
	if err != nil {
		return domain.OutcomeFailed, err
	}
	if !ok {
		r.logger.Info("skipped by user", "file", rel)
		return domain.OutcomeSkipped, nil
	}

	for _, c := range res.Changes {
		t.conversion(ctx, rel, c.Kind, c.Before, c.After)
	}
	if !r.dryRun {
		if err := textio.WriteFile(file, text, out); err != nil {
			return domain.OutcomeFailed, err
		}
	}
	r.logger.Info("converted view", "file", rel, "changes", len(res.Changes))
	return domain.OutcomeSucceeded, nil
}

// RenameTreeToList renames the tree view type to list in every file with a
// configured extension. Files without an occurrence are not reported.
func (r *Runner) RenameTreeToList(ctx context.Context) (domain.StepReport, error) {
	t := r.track(StepTreeList)
	files, err := r.finder().FilesWithExtensions(r.cfg.TreeListExtensions)
	if err != nil {
		return t.step, err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return t.step, err
		}
		text, err := textio.ReadFile(file)
		if err != nil {
			if errors.Is(err, textio.ErrBinary) {
				continue
			}
			rel := r.rel(file)
			t.start(ctx, rel)
			t.done(ctx, rel, domain.OutcomeFailed, err)
			continue
		}
		n := treelist.Count(text.Content)
		if n == 0 {
			continue
		}

		rel := r.rel(file)
		t.start(ctx, rel)
		outcome, err := r.renameTree(ctx, t, file, rel, text, n)
		if err != nil && ctx.Err() != nil {
			return t.step, ctx.Err()
		}
		t.done(ctx, rel, outcome, err)
	}
	return t.result()
}

func (r *Runner) renameTree(ctx context.Context, t *tracker, file, rel string, text *textio.Text, n int) (string, error) {
	ok, err := t.confirm(ctx, rel, fmt.Sprintf("%d occurrence(s) of 'tree' will be renamed to 'list'", n))
	if err != nil {
		return domain.OutcomeFailed, err
	}
	if !ok {
		return domain.OutcomeSkipped, nil
	}
	if !r.dryRun {
		if err := textio.WriteFile(file, text, treelist.Rename(text.Content)); err != nil {
			return domain.OutcomeFailed, err
		}
	}
	r.logger.Info("renamed tree to list", "file", rel, "occurrences", n)
	return domain.OutcomeSucceeded, nil
}

// UpdateManifests sets the target version, the author and the maintainers
// in every module manifest.
func (r *Runner) UpdateManifests(ctx context.Context, to int) (domain.StepReport, error) {
	t := r.track(StepManifests)
	files, err := r.finder().Manifests()
	if err != nil {
		return t.step, err
	}

	opts := manifest.UpdateOptions{
		Version:     r.cfg.TargetVersion(to),
		Author:      r.cfg.Author,
		Maintainers: r.cfg.Maintainers,
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return t.step, err
		}
		rel := r.rel(file)
		t.start(ctx, rel)
		outcome, err := r.updateManifest(ctx, t, file, rel, opts)
		if err != nil && ctx.Err() != nil {
			return t.step, ctx.Err()
		}
		t.done(ctx, rel, outcome, err)
	}
	return t.result()
}

func (r *Runner) updateManifest(ctx context.Context, t *tracker, file, rel string, opts manifest.UpdateOptions) (string, error) {
	m, err := manifest.Load(file)
	if err != nil {
		return domain.OutcomeFailed, err
	}
	if err := manifest.Validate(m.Dict); err != nil {
		return domain.OutcomeFailed, fmt.Errorf("invalid manifest: %w", err)
	}

	changed, warnings := manifest.Update(m.Dict, opts)
	for _, w := range warnings {
		r.logger.Warn("manifest left partly unchanged", "file", rel, "warning", w)
		t.note("%s: %s", rel, w)
	}
	if !changed {
		return domain.OutcomeSkipped, nil
	}

	ok, err := t.confirm(ctx, rel, fmt.Sprintf("version will be set to %s", opts.Version))
	if err != nil {
		return domain.OutcomeFailed, err
	}
	if !ok {
		return domain.OutcomeSkipped, nil
	}
	if !r.dryRun {
		if err := m.Save(); err != nil {
			return domain.OutcomeFailed, err
		}
	}
	r.logger.Info("updated manifest", "file", rel, "version", opts.Version)
	return domain.OutcomeSucceeded, nil
}
