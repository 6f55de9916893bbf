package petsim

// Food is published when food is put out. Amount is in grams.
type Food struct {
	Amount int
}

// Sleep is published when the household goes to sleep. Time is in minutes.
type Sleep struct {
	Time int
}
