// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package exchange mints voting credit for base currency and redeems it again.
//
// Amounts of base currency are in wei and carried as *big.Int. The default
// rate is 100 credit per coin with a minimum purchase of 0.01 coin, and
// redemption pays back 90% of the purchase rate.
package exchange
