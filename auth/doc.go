// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides account identity and key utilities.

# Addresses

Accounts are identified by a random 20-byte address, hex encoded with a
"0x" prefix:

	addr, err := auth.GenerateAddress()
	addr, err = auth.NormalizeAddress(input) // lower case, validated

# Account Keys

Account keys use HMAC-SHA256 over the address:

	key := auth.GenerateAccountKey(addr, salt)
	err := auth.ValidateAccountKey(addr, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same address and salt always produce the same key, so keys are never
stored in the database.

# Operator Key

Manual settlement is gated on a configured operator key:

	err := auth.ValidateOperatorKey(presented, cfg.OperatorKey)

# IP Hashing

For privacy-preserving abuse tracking:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
