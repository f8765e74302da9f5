// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mixins provides generic read, write and authentication operations
// for admin resources. Each operation resolves its repository or form from
// the mixin configuration, calls the store or the form, and returns a
// [Result] that handlers write with [WriteResult].
package mixins

import (
	"context"
	"errors"
	"reflect"

	"github.com/MKhiriev/go-admin-mixins/internal/forms"
	"github.com/MKhiriev/go-admin-mixins/internal/serializer"
	"github.com/MKhiriev/go-admin-mixins/internal/store"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// DefaultOrdering is the order of filtered lists when none is given.
const DefaultOrdering = "id"

// BaseOperation implements lookups and serialization for one model.
//
// The repository is the explicit Repository, or else the one of Form.
// Files defaults to the storage of Form and is used to resolve file URLs.
type BaseOperation[T models.Model] struct {
	Repository store.ModelRepository[T]
	Form       *forms.Factory[T]
	Files      store.FileStorage

	// IncludedFields limits serialized keys. Empty means every field.
	IncludedFields []string
	// ExcludedFields removes serialized keys.
	ExcludedFields []string
}

// Using returns a copy of b operating on repo instead of its configured
// repository.
func (b BaseOperation[T]) Using(repo store.ModelRepository[T]) BaseOperation[T] {
	b.Repository = repo
	return b
}

func (b BaseOperation[T]) repository() (store.ModelRepository[T], error) {
	if b.Repository != nil {
		return b.Repository, nil
	}
	if b.Form != nil && b.Form.Repository() != nil {
		return b.Form.Repository(), nil
	}
	return nil, ErrNotConfigured
}

func (b BaseOperation[T]) files() store.FileStorage {
	if b.Files != nil {
		return b.Files
	}
	if b.Form != nil {
		return b.Form.Files
	}
	return nil
}

// GetInstance returns the single instance matching lookups. No match yields
// a [*NotFoundError].
func (b BaseOperation[T]) GetInstance(ctx context.Context, lookups store.Lookups) (T, error) {
	var zero T

	repo, err := b.repository()
	if err != nil {
		return zero, err
	}

	instance, err := repo.Objects().Filter(lookups).Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return zero, &NotFoundError{VerboseName: repo.Meta().VerboseName}
	}
	return instance, err
}

// Get serializes the single instance matching lookups.
func (b BaseOperation[T]) Get(ctx context.Context, lookups store.Lookups) Result {
	instance, err := b.GetInstance(ctx, lookups)
	if err != nil {
		return failure(ctx, err)
	}

	data, err := b.SerializeInstance(instance)
	if err != nil {
		return failure(ctx, err)
	}
	return Result{Data: data}
}

// AllQS returns every instance, unfiltered.
func (b BaseOperation[T]) AllQS() (store.QuerySet[T], error) {
	repo, err := b.repository()
	if err != nil {
		return store.QuerySet[T]{}, err
	}
	return repo.Objects(), nil
}

// All serializes every instance.
func (b BaseOperation[T]) All(ctx context.Context) Result {
	qs, err := b.AllQS()
	if err != nil {
		return failure(ctx, err)
	}
	return b.list(ctx, qs)
}

// FilteredQS returns the instances matching lookups ordered by orderBy,
// or by [DefaultOrdering] when no ordering is given.
func (b BaseOperation[T]) FilteredQS(lookups store.Lookups, orderBy ...string) (store.QuerySet[T], error) {
	repo, err := b.repository()
	if err != nil {
		return store.QuerySet[T]{}, err
	}
	if len(orderBy) == 0 {
		orderBy = []string{DefaultOrdering}
	}
	return repo.Objects().Filter(lookups).OrderBy(orderBy...), nil
}

// Filter serializes the instances matching lookups.
func (b BaseOperation[T]) Filter(ctx context.Context, lookups store.Lookups, orderBy ...string) Result {
	qs, err := b.FilteredQS(lookups, orderBy...)
	if err != nil {
		return failure(ctx, err)
	}
	return b.list(ctx, qs)
}

// ExcludedQS returns the instances not matching lookups.
func (b BaseOperation[T]) ExcludedQS(lookups store.Lookups) (store.QuerySet[T], error) {
	repo, err := b.repository()
	if err != nil {
		return store.QuerySet[T]{}, err
	}
	return repo.Objects().Exclude(lookups).OrderBy(DefaultOrdering), nil
}

// Exclude serializes the instances not matching lookups.
func (b BaseOperation[T]) Exclude(ctx context.Context, lookups store.Lookups) Result {
	qs, err := b.ExcludedQS(lookups)
	if err != nil {
		return failure(ctx, err)
	}
	return b.list(ctx, qs)
}

func (b BaseOperation[T]) list(ctx context.Context, qs store.QuerySet[T]) Result {
	items, err := qs.All(ctx)
	if err != nil {
		return failure(ctx, err)
	}

	data, err := b.Serialize(items)
	if err != nil {
		return failure(ctx, err)
	}
	return Result{Data: data}
}

// SerializeInstance converts instance into a dict honoring the included and
// excluded fields. File fields become URLs.
func (b BaseOperation[T]) SerializeInstance(instance T) (models.Dict, error) {
	var urls serializer.URLResolver
	if files := b.files(); files != nil {
		urls = files
	}
	return serializer.ModelToDict(instance, b.IncludedFields, b.ExcludedFields, urls)
}

// Serialize converts every instance. The result is never nil.
func (b BaseOperation[T]) Serialize(instances []T) ([]models.Dict, error) {
	out := make([]models.Dict, 0, len(instances))
	for _, instance := range instances {
		data, err := b.SerializeInstance(instance)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// Errors returns the first error message of form.
func (b BaseOperation[T]) Errors(form *forms.ModelForm[T]) string {
	return FirstError(form)
}

// fileNames returns the stored files referenced by instance.
func fileNames[T models.Model](meta *store.Meta, instance T) []string {
	v := reflect.ValueOf(instance)
	var names []string
	for _, field := range meta.Fields {
		file, ok := field.Value(v).Interface().(models.FieldFile)
		if ok && !file.IsZero() {
			names = append(names, file.Name)
		}
	}
	return names
}
