package server

// RegisterRoutes mounts the Chronos API routes on the server's Gin engine.
func (s *Server) RegisterRoutes(h *Handlers) {
	s.engine.GET("/", h.Root)

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/spine-articles/search", h.SearchArticles)
		v1.POST("/ocr", h.ExtractText)
		v1.POST("/graph/ingest-historical", h.IngestHistorical)
		v1.POST("/graph/ingest-modern", h.IngestModern)
		v1.POST("/hypothesis", h.GenerateHypothesis)
		v1.POST("/dkg/write-stub", h.WriteDKGStub)
	}
}
