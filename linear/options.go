package linear

// Option is a function that configures LinearRegression
type Option func(*LinearRegression)

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithAlpha sets the L2 penalty on the coefficients. The intercept is never
// penalized. Zero gives ordinary least squares.
func WithAlpha(alpha float64) Option {
	return func(lr *LinearRegression) {
		lr.alpha = alpha
	}
}

// WithNJobs bounds the goroutines used to assemble the design matrix.
// Values <= 0 use every CPU.
func WithNJobs(n int) Option {
	return func(lr *LinearRegression) {
		lr.nJobs = n
	}
}
