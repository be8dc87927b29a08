package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

// Telco-style schema the scoring model was trained against.
var sampleColumns = []string{
	"customerID", "gender", "SeniorCitizen", "Partner", "Dependents",
	"tenure", "PhoneService", "InternetService", "Contract",
	"PaperlessBilling", "PaymentMethod", "MonthlyCharges", "TotalCharges",
}

// WriteSampleCustomerCSV writes n rows of synthetic customer data in the
// upload schema, so callers can try the pipeline without real data.
func WriteSampleCustomerCSV(w io.Writer, n int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	pick := func(options ...string) string {
		return options[rng.Intn(len(options))]
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(sampleColumns); err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		tenure := rng.Intn(60) + 1
		monthly := 20 + rng.Float64()*80
		total := monthly * float64(tenure)
		row := []string{
			fmt.Sprintf("CUST_%04d", i),
			pick("Male", "Female"),
			pick("0", "1"),
			pick("Yes", "No"),
			pick("Yes", "No"),
			strconv.Itoa(tenure),
			pick("Yes", "No"),
			pick("DSL", "Fiber optic", "No"),
			pick("Month-to-month", "One year", "Two year"),
			pick("Yes", "No"),
			pick("Electronic check", "Mailed check", "Bank transfer (automatic)", "Credit card (automatic)"),
			strconv.FormatFloat(monthly, 'f', 2, 64),
			strconv.FormatFloat(total, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
