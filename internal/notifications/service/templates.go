package service

import (
	"fmt"

	"bouncely/pkg/model"
	"bouncely/pkg/pricing"
	"bouncely/pkg/sanitizer"
)

type Audience string

const (
	AudienceGuest Audience = "guest"
	AudienceHost  Audience = "host"
)

const dateLayout = "Mon Jan 2, 2006 15:04 MST"

// ReservationContent renders the notification a participant receives when a
// reservation is created or changes status.
func ReservationContent(eventType string, r *model.Reservation, audience Audience, baseURL string) model.NotificationContent {
	content := model.NotificationContent{
		Type:      eventType,
		ActionURL: sanitizer.JoinURL(baseURL, "reservations/"+r.ID),
	}
	when := r.StartDate.Format(dateLayout)
	total := "$" + pricing.Format(r.TotalAmount)

	switch eventType {
	case model.EventReservationRequested:
		content.Subject = "New booking request"
		content.Body = fmt.Sprintf("You have a new booking request for %s (%s). Review it to approve or decline.", when, total)
	case model.EventReservationApproved:
		content.Subject = "Your booking was approved"
		content.Body = fmt.Sprintf("The host approved your booking for %s. Pay %s to confirm it.", when, total)
	case model.EventReservationRejected:
		content.Subject = "Your booking was declined"
		content.Body = fmt.Sprintf("The host declined your booking for %s. You have not been charged.", when)
	case model.EventReservationWithdrawn:
		content.Subject = "A booking request was withdrawn"
		content.Body = fmt.Sprintf("The guest withdrew their booking request for %s.", when)
	case model.EventReservationCancelled:
		content.Subject = "Booking cancelled"
		content.Body = fmt.Sprintf("The booking for %s was cancelled by support.", when)
	case model.EventReservationConfirmed:
		content.Subject = "Booking confirmed"
		if audience == AudienceHost {
			content.Body = fmt.Sprintf("Payment received. The booking for %s is confirmed. Your payout is $%s.", when, pricing.Format(r.HostPayout))
		} else {
			content.Body = fmt.Sprintf("Payment of %s received. Your booking for %s is confirmed.", total, when)
		}
	case model.EventReservationExpired:
		content.Subject = "Booking expired"
		content.Body = fmt.Sprintf("The booking for %s expired because payment was not completed in time.", when)
	case model.EventReservationCompleted:
		content.Subject = "Booking completed"
		content.Body = fmt.Sprintf("The booking for %s is complete. Thanks for using Bouncely.", when)
	default:
		content.Subject = "Booking update"
		content.Body = fmt.Sprintf("The booking for %s is now %s.", when, r.Status)
	}
	return content
}
