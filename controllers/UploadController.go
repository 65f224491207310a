package controllers

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// UploadController stores question images in GridFS and streams them back.
type UploadController struct {
	questions *mongo.Collection
	bucket    *gridfs.Bucket
	appURL    string
}

func NewUploadController(questions *mongo.Collection, bucket *gridfs.Bucket, appURL string) *UploadController {
	return &UploadController{questions: questions, bucket: bucket, appURL: appURL}
}

func (uc *UploadController) Upload(c *gin.Context) {
	question, ok := fetchQuestion(c, uc.questions)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	key := uuid.NewString() + filepath.Ext(file.Filename)

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	fileID := primitive.NewObjectID()
	uploadStream, err := uc.bucket.OpenUploadStreamWithID(fileID, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	if _, err := io.Copy(uploadStream, src); err != nil {
		uploadStream.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	if err := uploadStream.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	url := uc.appURL + "/images/" + fileID.Hex()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := uc.questions.UpdateOne(ctx, bson.M{"_id": question.ID},
		bson.M{"$push": bson.M{"images": url}}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}

func (uc *UploadController) GetImage(c *gin.Context) {
	fileID, err := primitive.ObjectIDFromHex(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image ID"})
		return
	}

	stream, err := uc.bucket.OpenDownloadStream(fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	defer stream.Close()

	contentType := mime.TypeByExtension(filepath.Ext(stream.GetFile().Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)

	if _, err := io.Copy(c.Writer, stream); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stream image"})
		return
	}
}
