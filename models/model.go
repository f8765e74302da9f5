// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models holds the persisted entities and the plain value types the
// mixins exchange with transports.
package models

import (
	"database/sql/driver"
	"fmt"
)

// Model is implemented by every entity that can be stored through a
// store.Repository.
//
// Column mapping is taken from `db` struct tags. A tag of the form
// `db:"column,auto"` marks a database-generated column that is never written
// by INSERT or UPDATE. The `id` column is the primary key.
type Model interface {
	// TableName returns the name of the database table backing the model.
	TableName() string

	// VerboseName returns a human-readable singular name used in messages
	// (e.g. "Corporate").
	VerboseName() string
}

// BeforeSaver is an optional hook called by the repository right before an
// INSERT (creating == true) or an UPDATE.
type BeforeSaver interface {
	BeforeSave(creating bool)
}

// Dict is the plain key/value mapping a model instance is serialized into.
type Dict = map[string]any

// FieldFile references an uploaded file by its stored name.
// The zero value means that no file is attached.
type FieldFile struct {
	Name string
}

// IsZero reports whether no file is attached.
func (f FieldFile) IsZero() bool {
	return f.Name == ""
}

// String returns the stored file name.
func (f FieldFile) String() string {
	return f.Name
}

// Scan implements sql.Scanner.
func (f *FieldFile) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		f.Name = ""
	case string:
		f.Name = v
	case []byte:
		f.Name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into FieldFile", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (f FieldFile) Value() (driver.Value, error) {
	return f.Name, nil
}
