// Package domain models point rainfall queries against the NASA POWER
// (Prediction Of Worldwide Energy Resources) climate dataset.
//
// # Data Source
//
// Rainfall values come from the POWER point API, parameter PRECTOTCORR
// (bias-corrected total precipitation, mm/day), community RE. Two temporal
// endpoints are used:
//
//	daily:       /daily/point?...&start=YYYYMMDD&end=YYYYMMDD
//	climatology: /climatology/point?...   (long-term monthly means, no range)
//
// Responses carry a nested mapping properties.parameter.PRECTOTCORR from a
// key to a number. Daily keys are YYYYMMDD. Climatology keys are month
// numbers ("1".."12" or "01".."12") or month abbreviations ("JAN".."DEC")
// plus "ANN" for the annual mean.
//
// # Missing Data
//
// POWER reports missing values with the sentinel -999. The sentinel never
// leaves the adapter boundary: [AmountFromRaw] turns it into an absent
// [Amount], and everything downstream checks Amount.Valid instead of
// comparing floats against -999.
//
// # Form Normalization
//
// Input arrives as raw text the way a user typed it. Each date field has two
// policies:
//
//	live:   strip non-digits, clamp to the typing upper bound, keep empty as empty
//	commit: substitute a default when empty, clamp into [min, max]
//
// Years may sit below [MinSupportedYear] while typing (an advisory is
// produced) but snap to it on commit. Committing a year or month re-clamps
// the paired day down to the new month length, never up.
//
// The fetch-time path in [Resolver.Resolve] is authoritative: it clamps years
// into [0, current year] only, so a value that was never committed can reach
// the climatology decision with a year below MinSupportedYear.
//
// # Climatology Decision
//
// A query is routed to climatology when the start is before 1981-01-01, the
// end is after the dataset's last daily date (a configuration constant,
// 2025-06-30 by default) or either year is below MinSupportedYear.
//
// # Rain Intensity Bands
//
// Daily or monthly millimetre values are banded for display:
//
//	absent: Data Unavailable | <2 No rain | <10 Light | <20 Moderate | <50 Heavy | else Very heavy
//
// The thresholds are user-visible and must not drift.
//
// # Coordinates
//
// Coordinates are clamped into a fixed regional bounding box (peninsular and
// Borneo Malaysia: lat 1.0..7.5, lon 100.0..120.0) and rounded to three
// decimals. Out-of-box input is clamped silently, never rejected.
package domain
