package welcome

import (
	"fmt"
	"strings"
	"time"

	"myassistant/model"
)

const weatherPlaceholder = "Sensors calibrating..."

// Snapshot is the locally available data the briefing is built from.
type Snapshot struct {
	Tasks        []model.Task
	Transactions []model.Transaction
	Settings     model.AppSettings
}

type BriefingContext struct {
	Now      time.Time
	Weather  *model.WeatherSnapshot
	Urgent   int
	Pending  int
	Balance  float64
	Currency string
}

func NewBriefingContext(snap Snapshot, weather *model.WeatherSnapshot, now time.Time, currency string) BriefingContext {
	bc := BriefingContext{
		Now:      now,
		Weather:  weather,
		Balance:  model.Balance(snap.Transactions),
		Currency: currency,
	}
	for _, t := range snap.Tasks {
		if t.Completed {
			continue
		}
		bc.Pending++
		if t.IsHigh() {
			bc.Urgent++
		}
	}
	return bc
}

func (bc BriefingContext) WeatherLine() string {
	if bc.Weather == nil {
		return weatherPlaceholder
	}
	return fmt.Sprintf("Code: %d, Temp: %g°C", bc.Weather.WeatherCode, bc.Weather.Temperature)
}

func (bc BriefingContext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Time: %s.\n", bc.Now.Format("15:04:05"))
	fmt.Fprintf(&b, "Weather: %s.\n", bc.WeatherLine())
	fmt.Fprintf(&b, "Urgent: %d.\n", bc.Urgent)
	fmt.Fprintf(&b, "Pending: %d.\n", bc.Pending)
	fmt.Fprintf(&b, "Balance: %s%.2f.", bc.Currency, bc.Balance)
	return b.String()
}
