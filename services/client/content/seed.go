// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package content

import "time"

// The demo catalog every fresh install ships with.

func ts(v string) time.Time {
	t, _ := time.Parse(time.RFC3339, v)
	return t
}

func seedPosts() []Post {
	return []Post{
		{
			ID:          "1",
			Title:       "Building Modern React Applications with TypeScript",
			Excerpt:     "Learn how to leverage TypeScript's powerful type system to build robust React applications that scale. We'll cover best practices, common patterns, and advanced techniques for professional development.",
			Content:     "Full content here...",
			Author:      Author{Name: "Sarah Chen", Avatar: "/placeholder-avatar.jpg", Username: "sarahdev"},
			PublishedAt: ts("2024-01-15T10:00:00Z"),
			ReadTime:    8,
			Likes:       124,
			Comments:    23,
			Category:    "Technology",
			Featured:    true,
			CoverImage:  "/placeholder-blog-1.jpg",
		},
		{
			ID:          "2",
			Title:       "The Future of Web Design: Trends to Watch in 2024",
			Excerpt:     "Explore the cutting-edge design trends that are shaping the web in 2024. From AI-powered interfaces to sustainable design practices, discover what's next in web design.",
			Content:     "Full content here...",
			Author:      Author{Name: "Alex Rivera", Avatar: "/placeholder-avatar-2.jpg", Username: "alexdesign"},
			PublishedAt: ts("2024-01-14T14:30:00Z"),
			ReadTime:    6,
			Likes:       89,
			Comments:    15,
			Category:    "Design",
			CoverImage:  "/placeholder-blog-2.jpg",
		},
		{
			ID:          "3",
			Title:       "Mastering Database Optimization for High-Performance Apps",
			Excerpt:     "Database performance can make or break your application. Learn proven strategies for optimizing queries, indexing, and database architecture for maximum performance.",
			Content:     "Full content here...",
			Author:      Author{Name: "Michael Zhang", Avatar: "/placeholder-avatar-3.jpg", Username: "mikedb"},
			PublishedAt: ts("2024-01-13T09:15:00Z"),
			ReadTime:    12,
			Likes:       76,
			Comments:    31,
			Category:    "Technology",
			CoverImage:  "/placeholder-blog-3.jpg",
		},
		{
			ID:          "4",
			Title:       "Building a Sustainable Business: Lessons from Green Startups",
			Excerpt:     "How environmentally conscious startups are revolutionizing business practices and creating profitable, sustainable companies that benefit both the planet and their bottom line.",
			Content:     "Full content here...",
			Author:      Author{Name: "Emma Thompson", Avatar: "/placeholder-avatar-4.jpg", Username: "emmabiz"},
			PublishedAt: ts("2024-01-12T16:45:00Z"),
			ReadTime:    10,
			Likes:       54,
			Comments:    18,
			Category:    "Business",
			CoverImage:  "/placeholder-blog-4.jpg",
		},
		{
			ID:          "5",
			Title:       "Mindful Productivity: Finding Balance in a Busy World",
			Excerpt:     "Discover how mindfulness practices can transform your productivity and help you achieve more while maintaining mental well-being and work-life balance.",
			Content:     "Full content here...",
			Author:      Author{Name: "David Kim", Avatar: "/placeholder-avatar-5.jpg", Username: "davidlife"},
			PublishedAt: ts("2024-01-11T11:20:00Z"),
			ReadTime:    7,
			Likes:       112,
			Comments:    27,
			Category:    "Lifestyle",
			CoverImage:  "/placeholder-blog-5.jpg",
		},
		{
			ID:          "6",
			Title:       "Advanced CSS Grid Techniques for Complex Layouts",
			Excerpt:     "Take your CSS Grid skills to the next level with advanced techniques for creating complex, responsive layouts that work across all devices and browsers.",
			Content:     "Full content here...",
			Author:      Author{Name: "Lisa Park", Avatar: "/placeholder-avatar-6.jpg", Username: "lisacss"},
			PublishedAt: ts("2024-01-10T13:00:00Z"),
			ReadTime:    9,
			Likes:       67,
			Comments:    12,
			Category:    "Technology",
			CoverImage:  "/placeholder-blog-6.jpg",
		},
		{
			ID:          "7",
			Title:       "The Art of User Experience: Creating Intuitive Digital Products",
			Excerpt:     "Learn the principles of exceptional UX design and how to create digital products that users love. From research to prototyping to testing, master the UX process.",
			Content:     "Full content here...",
			Author:      Author{Name: "James Wilson", Avatar: "/placeholder-avatar-7.jpg", Username: "jamesux"},
			PublishedAt: ts("2024-01-09T08:30:00Z"),
			ReadTime:    11,
			Likes:       93,
			Comments:    19,
			Category:    "Design",
			CoverImage:  "/placeholder-blog-7.jpg",
		},
		{
			ID:          "8",
			Title:       "Remote Work Revolution: Building Effective Distributed Teams",
			Excerpt:     "The future of work is remote. Learn how to build, manage, and scale distributed teams that are productive, engaged, and successful in the new work landscape.",
			Content:     "Full content here...",
			Author:      Author{Name: "Maria Garcia", Avatar: "/placeholder-avatar-8.jpg", Username: "mariawork"},
			PublishedAt: ts("2024-01-08T15:15:00Z"),
			ReadTime:    8,
			Likes:       85,
			Comments:    25,
			Category:    "Business",
			CoverImage:  "/placeholder-blog-8.jpg",
		},
	}
}

func seedCategories() []Category {
	return []Category{
		{ID: "tech", Name: "Technology", Count: 45},
		{ID: "design", Name: "Design", Count: 32},
		{ID: "business", Name: "Business", Count: 28},
		{ID: "lifestyle", Name: "Lifestyle", Count: 19},
		{ID: "health", Name: "Health", Count: 15},
		{ID: "travel", Name: "Travel", Count: 12},
	}
}

func seedComments() map[string][]Comment {
	return map[string][]Comment{
		"1": {
			{
				ID:          "1",
				PostID:      "1",
				Author:      Author{Name: "John Smith", Avatar: "/placeholder-comment-1.jpg", Username: "johndev"},
				Content:     "Great article! I've been struggling with TypeScript in React and this really helped clarify some concepts.",
				PublishedAt: ts("2024-01-15T12:30:00Z"),
				Likes:       5,
				Replies: []Comment{
					{
						ID:          "1-1",
						Author:      Author{Name: "Sarah Chen", Avatar: "/placeholder-avatar.jpg", Username: "sarahdev"},
						Content:     "Thanks John! I'm glad it was helpful. Feel free to ask if you have any specific questions.",
						PublishedAt: ts("2024-01-15T13:15:00Z"),
						Likes:       2,
					},
				},
			},
			{
				ID:          "2",
				PostID:      "1",
				Author:      Author{Name: "Emily Davis", Avatar: "/placeholder-comment-2.jpg", Username: "emilycode"},
				Content:     "The section on generics was particularly useful. Do you have any recommendations for advanced TypeScript resources?",
				PublishedAt: ts("2024-01-15T14:45:00Z"),
				Likes:       3,
				Replies:     []Comment{},
			},
		},
	}
}

func seedTrending() []TrendingPost {
	return []TrendingPost{
		{
			ID:       "1",
			Title:    "The Future of Web Development in 2024",
			Excerpt:  "Explore the latest trends and technologies that will shape web development this year...",
			Author:   "Jasleen Kaur",
			Views:    15420,
			Likes:    892,
			Comments: 156,
			Category: "Technology",
			ReadTime: "7 min read",
			Label:    TrendingHot,
		},
		{
			ID:       "2",
			Title:    "Building Scalable React Applications",
			Excerpt:  "Learn best practices for building large-scale React applications that can handle millions of users...",
			Author:   "Jasleen Kaur",
			Views:    12850,
			Likes:    745,
			Comments: 98,
			Category: "Programming",
			ReadTime: "10 min read",
			Label:    TrendingRising,
		},
		{
			ID:       "3",
			Title:    "Design Systems: From Theory to Practice",
			Excerpt:  "A comprehensive guide to creating and implementing effective design systems...",
			Author:   "Jasleen Kaur",
			Views:    9870,
			Likes:    623,
			Comments: 87,
			Category: "Design",
			ReadTime: "8 min read",
			Label:    TrendingSteady,
		},
		{
			ID:       "4",
			Title:    "AI in Modern Web Applications",
			Excerpt:  "How artificial intelligence is revolutionizing web development and user experience...",
			Author:   "Jasleen Kaur",
			Views:    8760,
			Likes:    534,
			Comments: 76,
			Category: "Technology",
			ReadTime: "12 min read",
			Label:    TrendingHot,
		},
	}
}
