package orders

import "math"

// AccessoryUnit is the unit of measure of a proposed accessory line.
type AccessoryUnit string

const (
	UnitPiece AccessoryUnit = "unit"
	UnitMeter AccessoryUnit = "meter"
	UnitKg    AccessoryUnit = "kg"
)

// AccessoryKind marks whether staff must prepare the accessory or may offer it.
type AccessoryKind string

const (
	AccessoryRequired AccessoryKind = "required"
	AccessoryOptional AccessoryKind = "optional"
)

// AccessoryLine is one proposed accessory. Proposals are advisory only: they
// are produced on demand for staff and never persisted or charged.
type AccessoryLine struct {
	Name     string        `json:"name"`
	Quantity float64       `json:"quantity"`
	Unit     AccessoryUnit `json:"unit"`
	Kind     AccessoryKind `json:"type"`
}

// Accessory names. The Arabic trade terms are kept as product vocabulary.
const (
	accMainAxis       = "Main Axis (Tube)"
	accMotorStandard  = "Motor (Standard)"
	accMotorHeavyDuty = "Motor (Heavy-Duty)"
	accChannels       = "Channels (Majari)"
	accEndCaps        = "End Caps (Tabbat)"
	accScrews         = "Screws/Bolts"
	accSecurityLocks  = "Security Locks"
	accRemoteControl  = "Remote Control"
	accHangers        = "Hangers (Hamalat)"
	accBottomBar      = "Bottom Bar (Barra)"
)

// motorTierAreaM2 is the per-opening area above which a heavy-duty motor is
// proposed instead of a standard one.
const motorTierAreaM2 = 5.0

// screwsPerOpening is the fixed mid-value of the 8-12 screws-per-opening range.
const screwsPerOpening = 10

// ProposeAccessories derives a deduplicated, quantity-summed accessory list
// from the opening set and the order-level service flags. Openings missing a
// geometric input for a given rule are excluded from that rule only; partial
// data degrades individual lines, never the whole proposal. Line order is
// stable for a given input.
func ProposeAccessories(openings []Opening, bladeWidthCm float64, hasDelivery, hasInstallation bool) []AccessoryLine {
	if len(openings) == 0 {
		return nil
	}

	var (
		totalCodeLength float64
		channelMeters   float64
		endCapSets      int
		standardMotors  int
		heavyMotors     int
	)
	for _, op := range openings {
		totalCodeLength += op.CodeLength
		if op.HasAccessories && op.Height > 0 {
			channelMeters += op.Height * 2 / 100
		}
		if op.HasEndCap {
			endCapSets++
		}
		if op.Area(bladeWidthCm) >= motorTierAreaM2 {
			heavyMotors++
		} else {
			standardMotors++
		}
	}
	motorCount := standardMotors + heavyMotors
	openingCount := len(openings)

	motorKind := AccessoryOptional
	if hasInstallation {
		motorKind = AccessoryRequired
	}

	var lines []AccessoryLine
	add := func(name string, qty float64, unit AccessoryUnit, kind AccessoryKind) {
		if qty <= 0 {
			return
		}
		for i := range lines {
			if lines[i].Name == name && lines[i].Unit == unit {
				lines[i].Quantity += qty
				return
			}
		}
		lines = append(lines, AccessoryLine{Name: name, Quantity: qty, Unit: unit, Kind: kind})
	}

	add(accMainAxis, totalCodeLength, UnitMeter, AccessoryRequired)
	add(accMotorStandard, float64(standardMotors), UnitPiece, motorKind)
	add(accMotorHeavyDuty, float64(heavyMotors), UnitPiece, motorKind)
	add(accChannels, channelMeters, UnitMeter, AccessoryRequired)
	add(accEndCaps, float64(endCapSets), UnitPiece, AccessoryRequired)
	if hasInstallation {
		add(accScrews, float64(screwsPerOpening*openingCount), UnitPiece, AccessoryRequired)
	}
	add(accSecurityLocks, float64(openingCount), UnitPiece, AccessoryOptional)
	if motorCount > 0 {
		add(accRemoteControl, math.Ceil(float64(motorCount)/3), UnitPiece, AccessoryOptional)
	}
	if hasInstallation {
		add(accHangers, float64(2*openingCount), UnitPiece, AccessoryRequired)
	}
	add(accBottomBar, totalCodeLength, UnitMeter, AccessoryRequired)

	return lines
}
