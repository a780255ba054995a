package roles

import (
	"context"
	"fmt"

	"servicenova/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

type cognitoGroupsAPI interface {
	AdminListGroupsForUser(ctx context.Context, params *cognitoidentityprovider.AdminListGroupsForUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminListGroupsForUserOutput, error)
}

// CognitoAdminPolicy treats members of one Cognito user pool group as admins.
type CognitoAdminPolicy struct {
	client     cognitoGroupsAPI
	userPoolID string
	group      string
}

func NewCognitoAdminPolicy(client cognitoGroupsAPI, userPoolID, group string) *CognitoAdminPolicy {
	return &CognitoAdminPolicy{
		client:     client,
		userPoolID: userPoolID,
		group:      group,
	}
}

func (p *CognitoAdminPolicy) IsAdmin(ctx context.Context, identity types.Identity) (bool, error) {
	if p.group == "" || identity.UserID == "" {
		return false, nil
	}

	input := &cognitoidentityprovider.AdminListGroupsForUserInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(identity.UserID),
		Limit:      aws.Int32(60),
	}

	for {
		out, err := p.client.AdminListGroupsForUser(ctx, input)
		if err != nil {
			return false, fmt.Errorf("failed to list groups for user %s: %w", identity.UserID, err)
		}

		for _, group := range out.Groups {
			if aws.ToString(group.GroupName) == p.group {
				return true, nil
			}
		}

		if aws.ToString(out.NextToken) == "" {
			return false, nil
		}
		input.NextToken = out.NextToken
	}
}
