package handler

import (
	blogapp "github.com/estate/backend/internal/application/blog"
	"github.com/estate/backend/internal/domain/blog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PostHandler handles blog HTTP requests
type PostHandler struct {
	BaseHandler
	postService *blogapp.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *blogapp.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create godoc
// @Summary      Create a post
// @Description  Create a draft blog post authored by the caller
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body CreatePostRequest true "Post content"
// @Success      201 {object} dto.Response{data=PostResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), getSubject(c), blogapp.CreatePostRequest{
		Title:   req.Title,
		Body:    req.Body,
		Excerpt: req.Excerpt,
		Tags:    req.Tags,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPostResponse(post))
}

// List godoc
// @Summary      List posts
// @Description  Browse blog posts. Anonymous callers only see published posts.
// @Tags         posts
// @Produce      json
// @Param        tag    query string false "Tag"
// @Param        search query string false "Keyword in title or body"
// @Success      200 {object} dto.Response{data=[]PostResponse}
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	var query PostListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	subject := getSubject(c)
	filter := blog.PostFilter{
		Tag:      query.Tag,
		Keyword:  query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	}
	if query.Status != "" {
		status := blog.PostStatus(query.Status)
		filter.Status = &status
	}
	if query.Mine && subject.Authenticated {
		filter.AuthorID = &subject.UserID
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	posts, total, err := h.postService.ListPosts(c.Request.Context(), subject, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPostResponses(posts), total, filter.Page, filter.PageSize)
}

// GetBySlug godoc
// @Summary      Get a post by slug
// @Description  Get a single post. Drafts are only visible to their author or an admin.
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200 {object} dto.Response{data=PostResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /posts/{slug} [get]
func (h *PostHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Slug is required")
		return
	}

	post, err := h.postService.GetPostBySlug(c.Request.Context(), getSubject(c), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPostResponse(post))
}

// Update godoc
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id      path string true "Post ID" format(uuid)
// @Param        request body UpdatePostRequest true "Post content"
// @Success      200 {object} dto.Response{data=PostResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID format")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), getSubject(c), postID, blogapp.UpdatePostRequest{
		Title:   req.Title,
		Body:    req.Body,
		Excerpt: req.Excerpt,
		Tags:    req.Tags,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPostResponse(post))
}

// Publish godoc
// @Summary      Publish a post
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      200 {object} dto.Response{data=PostResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id}/publish [post]
func (h *PostHandler) Publish(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID format")
		return
	}

	post, err := h.postService.PublishPost(c.Request.Context(), getSubject(c), postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPostResponse(post))
}

// Unpublish godoc
// @Summary      Unpublish a post
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      200 {object} dto.Response{data=PostResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id}/unpublish [post]
func (h *PostHandler) Unpublish(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID format")
		return
	}

	post, err := h.postService.UnpublishPost(c.Request.Context(), getSubject(c), postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPostResponse(post))
}

// Delete godoc
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID format")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), getSubject(c), postID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
