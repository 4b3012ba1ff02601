package service

import (
	"courtside/internal/cache"
	"courtside/internal/messaging"
	"courtside/internal/repository"
	"courtside/internal/search"
)

// Services aggregates all business-logic services. The cache, search and
// messaging clients may be nil; every service degrades to the database.
type Services struct {
	Bookings   *BookingService
	Venues     *VenueService
	Activities *ActivityService
	Reviews    *ReviewService
	Comments   *CommentService
	Users      *UserService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient,
	valkeyClient *cache.ValkeyClient, esClient *search.ElasticsearchClient) *Services {

	return &Services{
		Bookings:   NewBookingService(repos.Bookings, repos.Venues, repos.Users, repos.Configs, natsClient),
		Venues:     NewVenueService(repos.Venues, repos.Bookings, repos.Users, valkeyClient, esClient),
		Activities: NewActivityService(repos.Activities, natsClient),
		Reviews:    NewReviewService(repos.Reviews, repos.Venues, esClient, natsClient),
		Comments:   NewCommentService(repos.Comments),
		Users:      NewUserService(repos.Users),
	}
}
