// Filmfactor - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmfactor

package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for factor model construction and scoring.
var (
	// ErrIndexOutOfRange is returned when a dense user index is not a row of the model.
	ErrIndexOutOfRange = errors.New("user index out of range")

	// ErrShapeMismatch is returned when factor matrices and bias vectors disagree in size.
	ErrShapeMismatch = errors.New("factor model shape mismatch")
)

// FactorModel holds trained FunkSVD parameters.
//
// The prediction for user u and item i is:
//
//	r(u,i) = globalMean + userBias[u] + itemBias[i] + dot(P[u], Q[i])
//
// A FactorModel is immutable after construction and safe for concurrent use.
type FactorModel struct {
	userFactors *mat.Dense // users x k
	itemFactors *mat.Dense // items x k
	userBias    []float64
	itemBias    *mat.VecDense
	globalMean  float64
	numUsers    int
	numItems    int
	dim         int
}

// NewFactorModel validates and wraps trained parameters.
// Factor matrices are given row-major: userFactors has len(userBias) rows
// and itemFactors has len(itemBias) rows, each of width dim.
func NewFactorModel(userFactors, itemFactors []float64, userBias, itemBias []float64, globalMean float64, dim int) (*FactorModel, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: latent dimension must be at least 1, got %d", ErrShapeMismatch, dim)
	}
	numUsers := len(userBias)
	numItems := len(itemBias)
	if numUsers == 0 || numItems == 0 {
		return nil, fmt.Errorf("%w: model needs at least one user and one item (users=%d, items=%d)",
			ErrShapeMismatch, numUsers, numItems)
	}
	if len(userFactors) != numUsers*dim {
		return nil, fmt.Errorf("%w: user factors have %d values, want %d x %d",
			ErrShapeMismatch, len(userFactors), numUsers, dim)
	}
	if len(itemFactors) != numItems*dim {
		return nil, fmt.Errorf("%w: item factors have %d values, want %d x %d",
			ErrShapeMismatch, len(itemFactors), numItems, dim)
	}

	// Copy inputs so the caller cannot mutate the trained state.
	uf := make([]float64, len(userFactors))
	copy(uf, userFactors)
	itf := make([]float64, len(itemFactors))
	copy(itf, itemFactors)
	ub := make([]float64, numUsers)
	copy(ub, userBias)
	ib := make([]float64, numItems)
	copy(ib, itemBias)

	return &FactorModel{
		userFactors: mat.NewDense(numUsers, dim, uf),
		itemFactors: mat.NewDense(numItems, dim, itf),
		userBias:    ub,
		itemBias:    mat.NewVecDense(numItems, ib),
		globalMean:  globalMean,
		numUsers:    numUsers,
		numItems:    numItems,
		dim:         dim,
	}, nil
}

// NumUsers returns the number of trained users.
func (m *FactorModel) NumUsers() int { return m.numUsers }

// NumItems returns the number of trained items.
func (m *FactorModel) NumItems() int { return m.numItems }

// Dim returns the latent dimensionality.
func (m *FactorModel) Dim() int { return m.dim }

// GlobalMean returns the trained global rating mean.
func (m *FactorModel) GlobalMean() float64 { return m.globalMean }

// ScoreAllItems returns the predicted rating of every trained item for the
// user at userIndex, in the model's native item order.
//
// The dot products are computed in one matrix-vector product so the
// floating-point summation order is the same on every call.
func (m *FactorModel) ScoreAllItems(userIndex int) ([]float64, error) {
	if userIndex < 0 || userIndex >= m.numUsers {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, userIndex, m.numUsers)
	}

	userVec := m.userFactors.RowView(userIndex)

	scores := mat.NewVecDense(m.numItems, nil)
	scores.MulVec(m.itemFactors, userVec)
	scores.AddVec(scores, m.itemBias)

	offset := m.globalMean + m.userBias[userIndex]
	out := make([]float64, m.numItems)
	for i := range out {
		out[i] = scores.AtVec(i) + offset
	}
	return out, nil
}
