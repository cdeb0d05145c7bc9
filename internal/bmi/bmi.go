// Package bmi computes body-mass index results and their categories.
package bmi

import (
	"errors"
	"math"
	"sync"
)

// ErrInvalidInput is returned when weight or height is missing, not a finite
// number, or not strictly positive. There is no upper bound check.
var ErrInvalidInput = errors.New("weight and height must be positive numbers")

// Category is a WHO-style BMI classification.
type Category string

const (
	Underweight  Category = "Underweight"
	NormalWeight Category = "Normal weight"
	Overweight   Category = "Overweight"
	Obesity      Category = "Obesity"
)

// Recommendation returns the fixed guidance string for the category.
func (c Category) Recommendation() string {
	switch c {
	case Underweight:
		return "Increase calorie intake with balanced meals."
	case NormalWeight:
		return "Maintain a balanced diet and regular exercise."
	case Overweight:
		return "Focus on moderate calorie deficit and regular workouts."
	default:
		return "Consult a dietitian and focus on cardio exercises."
	}
}

// Result is an ephemeral computed BMI. Value is rounded to one decimal place
// for display; Category is decided on the unrounded quotient.
type Result struct {
	Value    float64
	Category Category
}

// Compute calculates weightKg / heightM² and classifies the result.
//
// Classification uses the clean partition {<18.5, [18.5,25), [25,30), >=30}
// evaluated on the raw quotient, not the display-rounded value. A raw value
// of exactly 25 is Overweight. The display value rounds half away from zero
// to one decimal place, so a raw 24.98 reports as 25.0 yet stays
// "Normal weight".
func Compute(weightKg, heightM float64) (Result, error) {
	if !valid(weightKg) || !valid(heightM) {
		return Result{}, ErrInvalidInput
	}

	raw := weightKg / (heightM * heightM)
	return Result{
		Value:    math.Round(raw*10) / 10,
		Category: classify(raw),
	}, nil
}

func valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func classify(raw float64) Category {
	switch {
	case raw < 18.5:
		return Underweight
	case raw < 25:
		return NormalWeight
	case raw < 30:
		return Overweight
	default:
		return Obesity
	}
}

// Calculator retains the last inputs and result so a caller can display and
// later clear them. Reset clears all four pieces of state under one lock; a
// reader never observes a partially reset calculator.
type Calculator struct {
	mu       sync.Mutex
	weightKg float64
	heightM  float64
	result   Result
	hasRes   bool
}

// Compute validates, computes, and retains the inputs and result.
func (c *Calculator) Compute(weightKg, heightM float64) (Result, error) {
	res, err := Compute(weightKg, heightM)
	if err != nil {
		return Result{}, err
	}

	c.mu.Lock()
	c.weightKg = weightKg
	c.heightM = heightM
	c.result = res
	c.hasRes = true
	c.mu.Unlock()
	return res, nil
}

// Last returns the retained result, if any.
func (c *Calculator) Last() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.hasRes
}

// Reset clears inputs and result atomically.
func (c *Calculator) Reset() {
	c.mu.Lock()
	c.weightKg = 0
	c.heightM = 0
	c.result = Result{}
	c.hasRes = false
	c.mu.Unlock()
}
