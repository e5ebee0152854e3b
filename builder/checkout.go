// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package builder

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CheckoutFunc switches the working tree of the repository at dir to branch.
type CheckoutFunc func(ctx context.Context, dir, branch string) error

// GitCheckout checks out a local branch of the repository at dir.  Local
// changes which would be overwritten make the checkout fail.
func GitCheckout(ctx context.Context, dir, branch string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("could not open repository %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("could not open worktree of %s: %w", dir, err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	}); err != nil {
		return fmt.Errorf("could not check out %s in %s: %w", branch, dir, err)
	}

	return nil
}
