// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package outreach looks up sales contacts stored across a set of Google Sheets spreadsheets.

outreach finds a contact by email address, either in a single worksheet, by sweeping every
worksheet of the configured spreadsheets or via the 'SentLog' fast path, reports and updates
the contact's 'Responded?' status and optionally generates a single-use Calendly booking link
prefilled with the contact's name and email.

outreach supports the following commands:

  - authorise, to authorise access to the Google Sheets spreadsheets
  - sheets, to list the worksheets available for searching
  - search, to find a contact by email address
  - update, to set the 'Responded?' status of the most recently found contact
  - calendly, to store the Calendly token, list event types and generate scheduling links
  - templates, to manage canned email templates
*/
package outreach
