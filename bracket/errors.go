/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import "errors"

// These are expected outcomes that a caller reports back to the TD; none of
// them leaves a Bracket partially modified.
var (
	ErrInvalidPlayerID  = errors.New("invalid player id")
	ErrAlreadyInBracket = errors.New("player already in bracket")
	ErrBracketIsFull    = errors.New("bracket is full")
	ErrInvalidMatch     = errors.New("invalid match")

	ErrInvalidConfig = errors.New("invalid bracket config")
)

// InvalidIndex is returned by PlayerIndex when the player has no slot.
const InvalidIndex = -1
