/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/dtref/resolver"
	"bennypowers.dev/dtref/token"
)

func TestResolveVariants(t *testing.T) {
	light := tree(t, map[string]any{"bg": "{palette.white}", "palette.white": "#fff"})
	dark := tree(t, map[string]any{"bg": "{palette.black}", "palette.black": "#000"})

	err := resolver.ResolveVariants(context.Background(), map[string]*token.Tree{
		"light": light,
		"dark":  dark,
	}, resolver.VariantOptions{})
	require.NoError(t, err)

	require.Equal(t, "#fff", resolvedValue(t, light, "bg"))
	require.Equal(t, "#000", resolvedValue(t, dark, "bg"))
}

func TestResolveVariants_Many(t *testing.T) {
	trees := make(map[string]*token.Tree)
	for i := range 16 {
		trees[fmt.Sprintf("v%d", i)] = tree(t, map[string]any{
			"base":  float64(i),
			"alias": "{base}",
			"label": "v{base}",
		})
	}
	require.NoError(t, resolver.ResolveVariants(context.Background(), trees, resolver.VariantOptions{Limit: 4}))

	for i := range 16 {
		tr := trees[fmt.Sprintf("v%d", i)]
		require.Equal(t, float64(i), resolvedValue(t, tr, "alias"))
		require.Equal(t, fmt.Sprintf("v%d", i), resolvedValue(t, tr, "label"))
	}
}

func TestResolveVariants_AttributesErrors(t *testing.T) {
	trees := map[string]*token.Tree{
		"light": tree(t, map[string]any{"bg": "{missing}"}),
		"dark":  tree(t, map[string]any{"bg": "{bg}"}),
		"hc":    tree(t, map[string]any{"bg": "#000"}),
	}

	err := resolver.ResolveVariants(context.Background(), trees, resolver.VariantOptions{AllErrors: true})
	require.Error(t, err)
	require.ErrorIs(t, err, resolver.ErrUnresolvedReference)
	require.ErrorIs(t, err, resolver.ErrCircularReference)

	var variantErr *resolver.VariantError
	require.True(t, errors.As(err, &variantErr))
	require.Contains(t, []string{"dark", "light"}, variantErr.Variant)
	require.Equal(t, "#000", resolvedValue(t, trees["hc"], "bg"))
}

func TestResolveVariants_FailFast(t *testing.T) {
	trees := map[string]*token.Tree{
		"only": tree(t, map[string]any{"bg": "{missing}"}),
	}
	err := resolver.ResolveVariants(context.Background(), trees, resolver.VariantOptions{})

	var variantErr *resolver.VariantError
	require.ErrorAs(t, err, &variantErr)
	require.Equal(t, "only", variantErr.Variant)
	require.ErrorIs(t, err, resolver.ErrUnresolvedReference)
}

func TestResolveVariants_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := resolver.ResolveVariants(ctx, map[string]*token.Tree{
		"light": tree(t, map[string]any{"bg": "#fff"}),
	}, resolver.VariantOptions{})
	require.ErrorIs(t, err, context.Canceled)
}
