package domain

type PVInput struct {
	Periods      float64
	InterestRate float64 // percent per period
	Payment      float64
	FutureValue  float64
}

type PVResult struct {
	PresentValue float64
}
