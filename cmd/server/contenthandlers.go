package server

import (
	"net/http"
)

// --- Posts ---

// createPostHandler expects {"text": "..."}.
func (s *Server) createPostHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.CreatePost(r.Context(), pathID(r, "uid"), bodyString(r, "text"))
	reply(w, "http/post", out, err)
}

func (s *Server) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := s.svc.ListPosts(r.Context(), pathID(r, "uid"))
	if err != nil {
		fail(w, "http/post", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getPostHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.GetPost(r.Context(), pathID(r, "pid"), pathID(r, "uid"))
	if err != nil {
		fail(w, "http/post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) editPostHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.EditPost(r.Context(), pathID(r, "pid"), pathID(r, "uid"), bodyString(r, "text"))
	reply(w, "http/post", out, err)
}

func (s *Server) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.DeletePost(r.Context(), pathID(r, "pid"), pathID(r, "uid"))
	reply(w, "http/post", out, err)
}

// --- Comments ---

// addCommentHandler expects {"comment": "..."}.
func (s *Server) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.AddComment(r.Context(), pathID(r, "pid"), pathID(r, "uid"), bodyString(r, "comment"))
	reply(w, "http/comment", out, err)
}

func (s *Server) getCommentHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.GetComment(r.Context(), pathID(r, "pid"), pathID(r, "uid"), pathID(r, "cid"))
	if err != nil {
		fail(w, "http/comment", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.DeleteComment(r.Context(), pathID(r, "pid"), pathID(r, "uid"), pathID(r, "cid"))
	reply(w, "http/comment", out, err)
}

// --- Likes ---

func (s *Server) likeHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Like(r.Context(), pathID(r, "uid"), pathID(r, "pid"))
	reply(w, "http/like", out, err)
}

func (s *Server) unlikeHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Unlike(r.Context(), pathID(r, "uid"), pathID(r, "pid"), pathID(r, "lid"))
	reply(w, "http/like", out, err)
}
