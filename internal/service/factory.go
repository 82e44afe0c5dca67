package service

import (
	"askhub.app/dispatch/internal/classifier"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
	"askhub.app/dispatch/internal/store"
)

type Services struct {
	stores     *store.Stores
	txRunner   TxRunner
	engine     *routing.Engine
	locker     routing.Locker
	classifier classifier.Classifier
	summarizer classifier.Summarizer
	producer   queue.Producer
}

type Deps struct {
	Stores     *store.Stores
	TxRunner   TxRunner
	Engine     *routing.Engine
	Locker     routing.Locker
	Classifier classifier.Classifier
	Summarizer classifier.Summarizer
	Producer   queue.Producer // nil runs auto-assignment inline
}

func NewServices(deps Deps) *Services {
	return &Services{
		stores:     deps.Stores,
		txRunner:   deps.TxRunner,
		engine:     deps.Engine,
		locker:     deps.Locker,
		classifier: deps.Classifier,
		summarizer: deps.Summarizer,
		producer:   deps.Producer,
	}
}

func (s *Services) Questions() QuestionService {
	return NewQuestionService(QuestionDeps{
		Questions:  s.stores.Questions(),
		Users:      s.stores.Users(),
		Responses:  s.stores.Responses(),
		TxRunner:   s.txRunner,
		Assigner:   s.engine,
		Locker:     s.locker,
		Classifier: s.classifier,
		Summarizer: s.summarizer,
		Producer:   s.producer,
	})
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users())
}

func (s *Services) Routing() RoutingService {
	return NewRoutingService(s.engine, s.producer)
}
