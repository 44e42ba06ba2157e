package ledger

// Fast paths over fixed-length day vectors, used when a series breakdown
// degenerates to "no breakdown" and whole days can be combined at once.

// AddX48 adds two day vectors elementwise.
func AddX48(a, b [HalfHoursPerDay]float64) [HalfHoursPerDay]float64 {
	var c [HalfHoursPerDay]float64
	for i := 0; i < HalfHoursPerDay; i++ {
		c[i] = a[i] + b[i]
	}
	return c
}

// AddMultipleX48 sums any number of day vectors elementwise.
func AddMultipleX48(vectors ...[HalfHoursPerDay]float64) [HalfHoursPerDay]float64 {
	var c [HalfHoursPerDay]float64
	for _, v := range vectors {
		c = AddX48(c, v)
	}
	return c
}

// MultiplyX48 multiplies two day vectors elementwise.
func MultiplyX48(a, b [HalfHoursPerDay]float64) [HalfHoursPerDay]float64 {
	var c [HalfHoursPerDay]float64
	for i := 0; i < HalfHoursPerDay; i++ {
		c[i] = a[i] * b[i]
	}
	return c
}

// ScaleX48 multiplies a day vector by a scalar.
func ScaleX48(a [HalfHoursPerDay]float64, scalar float64) [HalfHoursPerDay]float64 {
	var c [HalfHoursPerDay]float64
	for i := 0; i < HalfHoursPerDay; i++ {
		c[i] = a[i] * scalar
	}
	return c
}
