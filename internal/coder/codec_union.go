// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"fmt"

	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
	"github.com/snaewe/portablexdr/internal/errors"
)

// UnionCase selects Arm when the discriminant equals Value. Field names the
// Go field behind the arm and is only used in error paths.
type UnionCase struct {
	Value int32
	Field string
	Arm   Arm
}

// Union describes one value of a discriminated union: the arm for each
// discriminant value, bound to that value's fields
type Union struct {
	Name string

	// Set for unions switching on bool; any nonzero discriminant read off the
	// wire then selects the TRUE arm
	Bool bool

	Cases []UnionCase

	// Nil if the union has no default arm
	Default *UnionCase
}

func (u Union) arm(disc int32) *UnionCase {
	for i := range u.Cases {
		if u.Cases[i].Value == disc {
			return &u.Cases[i]
		}
	}
	return u.Default
}

func (u Union) armError(err error, c *UnionCase, disc int32) error {
	field := "?"
	if c != nil && c.Field != "" {
		field = c.Field
	}
	return errors.WithFieldError(err, u.Name, field, fmt.Sprintf("union:0x%x", uint32(disc)))
}

// Encode writes disc followed by the arm it selects
func (u Union) Encode(e xdrinterfaces.Encoder, disc int32) error {
	c := u.arm(disc)
	if c == nil {
		return u.armError(errors.ErrUnionSwitchArmUndefined, nil, disc)
	}

	if err := e.EncodeInt(disc); err != nil {
		return errors.WithFieldError(err, u.Name, "union:switch")
	}

	if err := c.Arm.EncodeArm(e); err != nil {
		return u.armError(err, c, disc)
	}
	return nil
}

// Decode reads the discriminant, then the arm it selects. The discriminant is
// returned even if no arm matches, so the caller can record what was seen.
func (u Union) Decode(d xdrinterfaces.Decoder) (int32, error) {
	disc, err := d.DecodeInt()
	if err != nil {
		return 0, errors.WithFieldError(err, u.Name, "union:switch")
	}
	if u.Bool && disc != 0 {
		disc = 1
	}

	c := u.arm(disc)
	if c == nil {
		return disc, u.armError(errors.ErrUnionSwitchArmUndefined, nil, disc)
	}

	if err := c.Arm.DecodeArm(d); err != nil {
		return disc, u.armError(err, c, disc)
	}
	return disc, nil
}

// Free releases the arm selected by disc
func (u Union) Free(disc int32) {
	if c := u.arm(disc); c != nil {
		c.Arm.FreeArm()
	}
}

// BoolDiscriminant converts a bool switch value to its wire form
func BoolDiscriminant(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
