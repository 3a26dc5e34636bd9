package delivery

import (
	"errors"
	"fmt"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

// maxPackageWeightGrams bounds a single package at 50 kg.
const maxPackageWeightGrams = 50_000

// SizeClass represents the handling category of a package.
// It selects the per-package handling fee in the price quote.
type SizeClass int

const (
	// SizeUnknown represents an invalid or undefined size class.
	SizeUnknown SizeClass = iota

	// SizeSmall fits in a courier bag.
	SizeSmall

	// SizeMedium requires a backpack or box.
	SizeMedium

	// SizeLarge requires a cargo rack or trunk.
	SizeLarge
)

func getSizeClassStrings() map[SizeClass]string {
	return map[SizeClass]string{
		SizeUnknown: "Unknown",
		SizeSmall:   "small",
		SizeMedium:  "medium",
		SizeLarge:   "large",
	}
}

// SizeClassFromString parses a size class from its wire representation.
func SizeClassFromString(s string) (SizeClass, error) {
	for size, str := range getSizeClassStrings() {
		if str == s && size != SizeUnknown {
			return size, nil
		}
	}
	return SizeUnknown, errs.NewValueIsInvalidErrorWithCause("size class",
		fmt.Errorf("%q is not a valid size class", s))
}

// Validate checks if the SizeClass value is valid.
func (s SizeClass) Validate() error {
	if s != SizeSmall && s != SizeMedium && s != SizeLarge {
		return errs.NewValueIsInvalidErrorWithCause("size class",
			fmt.Errorf("%d is not a valid size class", s))
	}
	return nil
}

// String returns the wire representation of the size class.
// Implements the fmt.Stringer interface.
func (s SizeClass) String() string {
	if str, ok := getSizeClassStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ErrPackageIsNotConstructed is returned when using an improperly
// initialized Package. Packages must be created via NewPackage.
var ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage constructor")

// Package is one physical parcel inside a delivery. Packages belong to
// exactly one Delivery: they are created with it and never reassigned.
// Size, weight, declared value and the fragility and insurance flags feed
// the handling-fee and insurance components of the price quote.
type Package struct {
	id            kernel.UUID
	size          SizeClass
	weightGrams   int
	declaredValue kernel.Money
	fragile       bool
	insured       bool
	guard         guard.ConstructorGuard
}

// NewPackage creates a Package with the given attributes.
// Weight must be positive and at most 50 kg; the declared value must be a
// properly constructed monetary amount.
func NewPackage(
	id kernel.UUID,
	size SizeClass,
	weightGrams int,
	declaredValue kernel.Money,
	fragile bool,
	insured bool,
) (*Package, error) {
	pkg := &Package{
		fragile: fragile,
		insured: insured,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		pkg.setID(id),
		pkg.setSize(size),
		pkg.setWeightGrams(weightGrams),
		pkg.setDeclaredValue(declaredValue),
	); err != nil {
		return nil, err
	}

	return pkg, nil
}

// RestorePackage reconstructs a Package from persistent storage.
// The restored package behaves identically to one created via NewPackage.
func RestorePackage(
	id kernel.UUID,
	size SizeClass,
	weightGrams int,
	declaredValue kernel.Money,
	fragile bool,
	insured bool,
) (*Package, error) {
	return NewPackage(id, size, weightGrams, declaredValue, fragile, insured)
}

// Validate checks if the Package was properly constructed via NewPackage.
func (p *Package) Validate() error {
	if p == nil {
		return ErrPackageIsNotConstructed
	}
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

// ID returns the package's unique identifier.
func (p *Package) ID() kernel.UUID {
	return p.id
}

// Size returns the handling category of the package.
func (p *Package) Size() SizeClass {
	return p.size
}

// WeightGrams returns the package weight in grams.
func (p *Package) WeightGrams() int {
	return p.weightGrams
}

// DeclaredValue returns the sender-declared value of the contents.
func (p *Package) DeclaredValue() kernel.Money {
	return p.declaredValue
}

// Fragile reports whether the package needs fragile handling.
func (p *Package) Fragile() bool {
	return p.fragile
}

// Insured reports whether the sender purchased insurance coverage.
func (p *Package) Insured() bool {
	return p.insured
}

func (p *Package) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Package) setSize(size SizeClass) error {
	if err := size.Validate(); err != nil {
		return err
	}
	p.size = size
	return nil
}

func (p *Package) setWeightGrams(weightGrams int) error {
	if weightGrams <= 0 || weightGrams > maxPackageWeightGrams {
		return errs.NewValueIsOutOfRangeError("weight_grams", weightGrams, 1, maxPackageWeightGrams)
	}
	p.weightGrams = weightGrams
	return nil
}

func (p *Package) setDeclaredValue(declaredValue kernel.Money) error {
	if err := declaredValue.Validate(); err != nil {
		return err
	}
	p.declaredValue = declaredValue
	return nil
}
