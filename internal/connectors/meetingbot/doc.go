// Package meetingbot syncs recording events from the meeting bot's
// REST API.
package meetingbot
