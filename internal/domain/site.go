package domain

import (
	"time"

	"github.com/google/uuid"
)

// Site is a remote installation plus its headcount checkpoint: the
// manually observed POB understood to hold at the start of
// POBUpdatedDate, before that day's trips are applied. The checkpoint is
// only ever written by an explicit manual headcount update; the
// occupancy engine reads it and never derives or stores one.
type Site struct {
	ID             uuid.UUID `json:"id"`
	SiteName       string    `json:"siteName"`
	CurrentPOB     int       `json:"currentPOB"`
	MaximumPOB     int       `json:"maximumPOB"`
	POBUpdatedDate time.Time `json:"-"`
}

// DefaultSites is the fixed set of site codes the system coordinates,
// with their berth capacities. POST /sites/initialize seeds these.
var DefaultSites = []Site{
	{SiteName: "NTM", CurrentPOB: 0, MaximumPOB: 120},
	{SiteName: "Ogle", CurrentPOB: 0, MaximumPOB: 80},
	{SiteName: "NSC", CurrentPOB: 0, MaximumPOB: 100},
	{SiteName: "NDT", CurrentPOB: 0, MaximumPOB: 60},
	{SiteName: "NBD", CurrentPOB: 0, MaximumPOB: 90},
	{SiteName: "STC", CurrentPOB: 0, MaximumPOB: 150},
}

// KnownSite reports whether name is one of the fixed site codes.
func KnownSite(name string) bool {
	for _, s := range DefaultSites {
		if s.SiteName == name {
			return true
		}
	}
	return false
}
