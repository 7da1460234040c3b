package handlers

import (
	"net/http"

	"mycraft-api/internal/models"
	"mycraft-api/internal/services"
	"mycraft-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errors := make(map[string]string)
	for _, err := range errs {
		errors[err.Field()] = "Field validation for '" + err.Field() + "' failed on the '" + err.Tag() + "' tag"
	}
	return errors
}

// parseUUIDParam parses a UUID path parameter, responding 400 on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return uuid.Nil, false
	}
	return id, true
}

// --- Model to DTO mapping ---
// Mapping is explicit and lives here; models never cross the HTTP boundary
// directly.

func mapProfileToResponse(profile *models.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		IsCraftsman:   profile.IsCraftsman,
		CompanyName:   profile.CompanyName,
		StreetAddress: profile.StreetAddress,
		ZipCode:       profile.ZipCode,
		City:          profile.City,
		Bio:           profile.Bio,
	}
}

func mapAccountToResponse(account *services.AccountBundle) dto.UserResponse {
	return dto.UserResponse{
		ID:        account.User.ID,
		Name:      account.User.Name,
		Email:     account.User.Email,
		Profile:   mapProfileToResponse(account.Profile),
		CreatedAt: account.User.CreatedAt,
		UpdatedAt: account.User.UpdatedAt,
	}
}

func mapPublicAccountToResponse(account *services.PublicAccount) dto.PublicUserResponse {
	return dto.PublicUserResponse{
		ID:            account.User.ID,
		Name:          account.User.Name,
		Profile:       mapProfileToResponse(account.Profile),
		AverageRating: account.Rating.AverageRating,
		ReviewCount:   account.Rating.ReviewCount,
	}
}

func mapJobToResponse(job *models.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:           job.ID,
		Title:        job.Title,
		Description:  job.Description,
		Trade:        string(job.Trade),
		TradeLabel:   job.Trade.Label(),
		ZipCode:      job.ZipCode,
		City:         job.City,
		Lat:          job.Lat,
		Lng:          job.Lng,
		Price:        job.Price,
		Status:       string(job.Status),
		ContractorID: job.ContractorID,
		DistanceKM:   job.DistanceKM,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}

func mapBookingToResponse(booking *models.Booking, reviewID *uuid.UUID) dto.BookingResponse {
	resp := dto.BookingResponse{
		ID:           booking.ID,
		ServiceID:    booking.ServiceID,
		CustomerID:   booking.CustomerID,
		ContractorID: booking.ContractorID,
		Price:        booking.Price,
		Status:       string(booking.Status),
		ReviewID:     reviewID,
		CreatedAt:    booking.CreatedAt,
		UpdatedAt:    booking.UpdatedAt,
	}
	if booking.ScheduledDate != nil {
		date := booking.ScheduledDate.Format("2006-01-02")
		resp.ScheduledDate = &date
	}
	return resp
}

func mapOfferToResponse(offer *models.Offer) dto.OfferResponse {
	return dto.OfferResponse{
		ID:             offer.ID,
		ConversationID: offer.ConversationID,
		CreatorID:      offer.CreatorID,
		Price:          offer.Price,
		Description:    offer.Description,
		Status:         string(offer.Status),
		CreatedAt:      offer.CreatedAt,
		UpdatedAt:      offer.UpdatedAt,
	}
}

func mapMessageToResponse(msg *models.Message, offer *models.Offer) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		IsRead:         msg.IsRead,
		CreatedAt:      msg.CreatedAt,
	}
	if offer != nil {
		offerResp := mapOfferToResponse(offer)
		resp.Offer = &offerResp
	}
	return resp
}

func mapConversationToResponse(conv *models.Conversation, lastMessage *models.Message) dto.ConversationResponse {
	resp := dto.ConversationResponse{
		ID:           conv.ID,
		JobID:        conv.JobID,
		CustomerID:   conv.CustomerID,
		ContractorID: conv.ContractorID,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
	}
	if lastMessage != nil {
		msgResp := mapMessageToResponse(lastMessage, nil)
		resp.LastMessage = &msgResp
	}
	return resp
}

func mapReviewToResponse(review *models.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:          review.ID,
		BookingID:   review.BookingID,
		ReviewerID:  review.ReviewerID,
		RecipientID: review.RecipientID,
		Rating:      review.Rating,
		Comment:     review.Comment,
		CreatedAt:   review.CreatedAt,
	}
}
