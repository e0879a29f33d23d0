/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent      = "boylstonchessclub-bracketbot/0.3.0 (+https://github.com/mikeb26/boylstonchessclub-bracketbot)"
	WebCacheBucket = "bopmatic-boylstonchessclub-tdbot-prod-webcache"
	BracketBucket  = "bopmatic-boylstonchessclub-tdbot-prod-brackets"

	BccApiBaseURL = "https://beta.boylstonchess.org/api"
	BccWebBaseURL = "https://boylstonchess.org"

	DefaultPlayersPerMatch = 2
)
