// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package email sends voter notification mail (welcome, approval with
// voting token, pre-election reminder, vote confirmation) over SMTP
// via gomail. Without SMTP configuration every send is a logged no-op.
package email
