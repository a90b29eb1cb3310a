package rpc

import (
	"context"
	"fmt"
	"math"
	"net"
	"os"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/auth"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/posts"
	"github.com/raiseyourvoice/backend/test"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

const testPass = "password123"

var (
	testDB   *db.MongoStorage
	testAuth *auth.Service
	testConn *grpc.ClientConn

	authClient    AuthServiceClient
	postClient    PostServiceClient
	commentClient CommentServiceClient
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start MongoDB container: %v", err))
	}
	mongoURI, err := test.MongoURI(ctx, dbContainer)
	if err != nil {
		panic(fmt.Sprintf("failed to get MongoDB endpoint: %v", err))
	}
	if testDB, err = db.New(mongoURI, test.RandomDatabaseName()); err != nil {
		panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
	}
	if testAuth, err = auth.New(&auth.Config{DB: testDB, Secret: "grpc-secret"}); err != nil {
		panic(err)
	}
	postService, err := posts.New(testDB, nil)
	if err != nil {
		panic(err)
	}
	srv, err := New(&Config{Auth: testAuth, Posts: postService})
	if err != nil {
		panic(err)
	}
	lis := bufconn.Listen(1 << 20)
	go func() {
		if err := srv.Serve(lis); err != nil {
			panic(err)
		}
	}()
	testConn, err = grpc.DialContext(ctx, "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		panic(err)
	}
	authClient = NewAuthServiceClient(testConn)
	postClient = NewPostServiceClient(testConn)
	commentClient = NewCommentServiceClient(testConn)

	code := m.Run()
	_ = testConn.Close()
	srv.Stop()
	testDB.Close()
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop MongoDB container: %v", err))
	}
	os.Exit(code)
}

// withToken returns a context carrying the access token, if any.
func withToken(token string) context.Context {
	ctx := context.Background()
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	return ctx
}

func testLogin(c *qt.C) *AuthResponse {
	email := internal.RandomHex(6) + "@example.com"
	_, _, err := testAuth.Register(context.Background(), &auth.Registration{
		Email:     email,
		Password:  testPass,
		FirstName: "Ada",
	})
	c.Assert(err, qt.IsNil)
	resp, err := authClient.Login(context.Background(), &LoginRequest{Email: email, Password: testPass})
	c.Assert(err, qt.IsNil)
	return resp
}

func TestDescriptorRegistered(t *testing.T) {
	c := qt.New(t)
	for _, name := range []protoreflect.FullName{
		"raiseyourvoice.AuthService", "raiseyourvoice.PostService", "raiseyourvoice.CommentService",
	} {
		desc, err := protoregistry.GlobalFiles.FindDescriptorByName(name)
		c.Assert(err, qt.IsNil)
		c.Assert(desc.ParentFile().Path(), qt.Equals, "raiseyourvoice.proto")
	}
	fields := (&PostList{}).ProtoReflect().Descriptor().Fields()
	c.Assert(string(fields.ByNumber(2).Message().FullName()), qt.Equals, "raiseyourvoice.Post")
}

func TestCodeFromHTTP(t *testing.T) {
	c := qt.New(t)
	for _, tc := range []struct {
		err  errors.Error
		code codes.Code
	}{
		{errors.ErrMalformedBody, codes.InvalidArgument},
		{errors.ErrUnauthorized, codes.Unauthenticated},
		{errors.ErrNotOwnerOfItem, codes.PermissionDenied},
		{errors.ErrPostNotFound, codes.NotFound},
		{errors.ErrDuplicateConflict, codes.AlreadyExists},
		{errors.ErrInvalidTransition, codes.FailedPrecondition},
		{errors.ErrServiceUnavailable, codes.Unavailable},
		{errors.ErrGenericInternalServerError, codes.Internal},
	} {
		c.Assert(status.Code(toStatus(tc.err)), qt.Equals, tc.code, qt.Commentf("%d", tc.err.Code))
	}
	c.Assert(status.Code(toStatus(fmt.Errorf("boom"))), qt.Equals, codes.Internal)
	c.Assert(toStatus(nil), qt.IsNil)
}

func TestAuthService(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	login := testLogin(c)
	c.Assert(login.AccessToken, qt.Not(qt.Equals), "")
	c.Assert(login.ExpiresAt > time.Now().Unix(), qt.IsTrue)

	_, err := authClient.Login(ctx, &LoginRequest{Email: login.Email, Password: "wrong"})
	c.Assert(status.Code(err), qt.Equals, codes.Unauthenticated)

	refreshed, err := authClient.Refresh(ctx, &RefreshRequest{RefreshToken: login.RefreshToken})
	c.Assert(err, qt.IsNil)
	c.Assert(refreshed.RefreshToken, qt.Not(qt.Equals), login.RefreshToken)
	c.Assert(refreshed.UserId, qt.Equals, login.UserId)

	_, err = authClient.Logout(ctx, &RefreshRequest{RefreshToken: refreshed.RefreshToken})
	c.Assert(err, qt.IsNil)
	_, err = authClient.Refresh(ctx, &RefreshRequest{RefreshToken: refreshed.RefreshToken})
	c.Assert(status.Code(err), qt.Equals, codes.Unauthenticated)
}

func TestPostAndCommentServices(t *testing.T) {
	c := qt.New(t)
	author := testLogin(c)
	reader := testLogin(c)
	anonymous := context.Background()

	_, err := postClient.CreatePost(anonymous, &CreatePostRequest{Content: "hello"})
	c.Assert(status.Code(err), qt.Equals, codes.Unauthenticated)
	_, err = postClient.CreatePost(withToken("not-a-token"), &CreatePostRequest{Content: "hello"})
	c.Assert(status.Code(err), qt.Equals, codes.Unauthenticated)

	post, err := postClient.CreatePost(withToken(author.AccessToken), &CreatePostRequest{
		Content: "Cleanup at the beach on Saturday",
		Tags:    []string{"Beach"},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(post.AuthorId, qt.Equals, author.UserId)
	c.Assert(post.Tags, qt.DeepEquals, []string{"beach"})
	c.Assert(post.OrganizationId, qt.Equals, "")
	c.Assert(post.CreatedAt > 0, qt.IsTrue)

	_, err = postClient.CreatePost(withToken(author.AccessToken), &CreatePostRequest{})
	c.Assert(status.Code(err), qt.Equals, codes.InvalidArgument)

	got, err := postClient.GetPost(anonymous, &PostRequest{PostId: post.Id})
	c.Assert(err, qt.IsNil)
	c.Assert(got.Content, qt.Equals, post.Content)
	_, err = postClient.GetPost(anonymous, &PostRequest{PostId: internal.NewObjectID().String()})
	c.Assert(status.Code(err), qt.Equals, codes.NotFound)
	_, err = postClient.GetPost(anonymous, &PostRequest{PostId: "nope"})
	c.Assert(status.Code(err), qt.Equals, codes.InvalidArgument)

	liked, err := postClient.LikePost(withToken(reader.AccessToken), &PostRequest{PostId: post.Id})
	c.Assert(err, qt.IsNil)
	c.Assert(liked.LikesCount, qt.Equals, int64(1))

	list, err := postClient.ListPosts(anonymous, &ListPostsRequest{AuthorId: author.UserId})
	c.Assert(err, qt.IsNil)
	c.Assert(list.Total, qt.Equals, int64(1))
	c.Assert(list.Posts[0].Id, qt.Equals, post.Id)
	// the offset of this page would overflow
	_, err = postClient.ListPosts(anonymous, &ListPostsRequest{Page: math.MaxInt64, PageSize: 100})
	c.Assert(status.Code(err), qt.Equals, codes.InvalidArgument)

	comment, err := commentClient.CreateComment(withToken(reader.AccessToken), &CreateCommentRequest{
		PostId: post.Id, Content: "Count me in",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(comment.ParentId, qt.Equals, "")
	comments, err := commentClient.ListComments(anonymous, &ListCommentsRequest{PostId: post.Id})
	c.Assert(err, qt.IsNil)
	c.Assert(comments.Total, qt.Equals, int64(1))
	c.Assert(comments.Comments[0].Id, qt.Equals, comment.Id)

	_, err = postClient.DeletePost(withToken(reader.AccessToken), &PostRequest{PostId: post.Id})
	c.Assert(status.Code(err), qt.Equals, codes.PermissionDenied)
	_, err = commentClient.DeleteComment(withToken(reader.AccessToken), &CommentRequest{CommentId: comment.Id})
	c.Assert(err, qt.IsNil)
	_, err = postClient.DeletePost(withToken(author.AccessToken), &PostRequest{PostId: post.Id})
	c.Assert(err, qt.IsNil)
}
