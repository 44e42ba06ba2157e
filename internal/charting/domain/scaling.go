package charting

import (
	"fmt"

	school "energy-dashboard/internal/school/domain"
)

// Benchmark consumption constants, annual kWh per pupil (electricity) and
// per m2 of floor area (gas/heat). Regional gas/heat benchmarks are
// discounted relative to national to reflect milder demand.
const (
	BenchmarkElectricityUsagePerPupilKWH = 220.0
	ExemplarElectricityUsagePerPupilKWH  = 175.0
	BenchmarkGasUsagePerM2KWH            = 115.0
	ExemplarGasUsagePerM2KWH             = 75.0

	RegionalBenchmarkDiscount = 0.9
)

// Flat conversion rates applied when a benchmark kWh figure has to be
// presented in the chart's active unit.
const (
	electricityCostPerKWH  = 0.15
	gasCostPerKWH          = 0.03
	electricityKgCO2PerKWH = 0.23
	gasKgCO2PerKWH         = 0.21
)

// ScalingFactor computes the proportional y-axis factor for a school.
func ScalingFactor(scaling Scaling, target *school.School) (float64, error) {
	switch scaling {
	case "", ScalingNone:
		return 1, nil
	case ScalingPerPupil:
		if target.Pupils == 0 {
			return 0, fmt.Errorf("%w: per-pupil scaling with no pupil count", ErrBadChartSpecification)
		}
		return 1 / float64(target.Pupils), nil
	case ScalingPer200Pupils:
		if target.Pupils == 0 {
			return 0, fmt.Errorf("%w: per-pupil scaling with no pupil count", ErrBadChartSpecification)
		}
		return 200 / float64(target.Pupils), nil
	case ScalingPerFloorArea:
		if target.FloorAreaM2 == 0 {
			return 0, fmt.Errorf("%w: per-area scaling with no floor area", ErrBadChartSpecification)
		}
		return 1 / target.FloorAreaM2, nil
	default:
		return 0, fmt.Errorf("%w: unknown y axis scaling %q", ErrBadChartSpecification, scaling)
	}
}

// ScaleKWHToUnit converts an annual benchmark kWh figure into the chart's
// active unit for a fuel, then applies the scaling factor.
func ScaleKWHToUnit(kwh float64, unit Unit, scaling Scaling, fuel school.FuelType, target *school.School) (float64, error) {
	factor, err := ScalingFactor(scaling, target)
	if err != nil {
		return 0, err
	}

	value := kwh
	switch unit {
	case UnitKWH, UnitKW:
	case UnitEconomicCost, UnitAccountingCost:
		if fuel == school.FuelElectricity {
			value = kwh * electricityCostPerKWH
		} else {
			value = kwh * gasCostPerKWH
		}
	case UnitCO2:
		if fuel == school.FuelElectricity {
			value = kwh * electricityKgCO2PerKWH
		} else {
			value = kwh * gasKgCO2PerKWH
		}
	default:
		return 0, fmt.Errorf("%w: unknown y axis unit %q", ErrBadChartSpecification, unit)
	}
	return value * factor, nil
}

// UnitDescription renders a value with its unit for titles and legends.
func UnitDescription(unit Unit, scaling Scaling, value float64) string {
	suffix := ""
	switch scaling {
	case ScalingPerPupil:
		suffix = " per pupil"
	case ScalingPer200Pupils:
		suffix = " per 200 pupils"
	case ScalingPerFloorArea:
		suffix = " per m2"
	}

	switch unit {
	case UnitKWH:
		return fmt.Sprintf("%.0f kWh%s", value, suffix)
	case UnitKW:
		return fmt.Sprintf("%.1f kW%s", value, suffix)
	case UnitEconomicCost, UnitAccountingCost:
		return fmt.Sprintf("£%.0f%s", value, suffix)
	case UnitCO2:
		return fmt.Sprintf("%.0f kg CO2%s", value, suffix)
	default:
		return fmt.Sprintf("%.1f%s", value, suffix)
	}
}
