package memory

import (
	"time"

	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type seedAccount struct {
	owner        string
	pin          int
	interestRate string
	movements    []string
	dates        []string
}

var defaultAccounts = []seedAccount{
	{
		owner:        "Jonas Schmedtmann",
		pin:          1111,
		interestRate: "1.2",
		movements:    []string{"200", "455.23", "-306.5", "25000", "-642.21", "-133.9", "79.97", "1300"},
		dates: []string{
			"2019-11-18T21:31:17.178Z",
			"2019-12-23T07:42:02.383Z",
			"2020-01-28T09:15:04.904Z",
			"2020-04-01T10:17:24.185Z",
			"2020-05-08T14:11:59.604Z",
			"2020-05-27T17:01:17.194Z",
			"2020-07-11T23:36:17.929Z",
			"2020-07-12T10:51:36.790Z",
		},
	},
	{
		owner:        "Jessica Davis",
		pin:          2222,
		interestRate: "1.5",
		movements:    []string{"5000", "3400", "-150", "-790", "-3210", "-1000", "8500", "-30"},
		dates: []string{
			"2019-11-01T13:15:33.035Z",
			"2019-11-30T09:48:16.867Z",
			"2019-12-25T06:04:23.907Z",
			"2020-01-25T14:18:46.235Z",
			"2020-02-05T16:33:06.386Z",
			"2020-04-10T14:43:26.374Z",
			"2020-06-25T18:49:59.371Z",
			"2020-07-26T12:01:20.894Z",
		},
	},
	{
		owner:        "Steven Thomas Williams",
		pin:          3333,
		interestRate: "0.7",
		movements:    []string{"200", "-200", "340", "-300", "-20", "50", "400", "-460"},
		dates: []string{
			"2019-10-04T08:12:44.120Z",
			"2019-10-19T17:40:03.512Z",
			"2019-11-22T11:05:51.007Z",
			"2020-01-09T19:27:36.640Z",
			"2020-02-14T07:58:12.300Z",
			"2020-03-30T15:21:48.915Z",
			"2020-05-17T10:09:27.482Z",
			"2020-06-30T21:44:05.066Z",
		},
	},
	{
		owner:        "Sarah Smith",
		pin:          4444,
		interestRate: "1",
		movements:    []string{"430", "1000", "700", "50", "90"},
		dates: []string{
			"2020-02-11T12:30:00.000Z",
			"2020-03-03T09:15:42.251Z",
			"2020-04-21T16:47:19.733Z",
			"2020-06-08T08:02:55.418Z",
			"2020-07-19T13:36:10.004Z",
		},
	},
}

// DefaultSeed returns the demo accounts the store starts with.
func DefaultSeed() []domain.AccountSeed {
	seeds := make([]domain.AccountSeed, 0, len(defaultAccounts))
	for _, a := range defaultAccounts {
		movements := make([]domain.Movement, len(a.movements))
		for i, raw := range a.movements {
			at, err := time.Parse(time.RFC3339Nano, a.dates[i])
			if err != nil {
				panic("memory: bad seed date " + a.dates[i])
			}
			movements[i] = domain.NewMovement(decimal.RequireFromString(raw), at)
		}

		seeds = append(seeds, domain.AccountSeed{
			Owner:        a.owner,
			Pin:          a.pin,
			InterestRate: decimal.RequireFromString(a.interestRate),
			Movements:    movements,
		})
	}

	return seeds
}
